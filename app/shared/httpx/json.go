// Package httpx holds the JSON and middleware plumbing shared by the module
// handlers.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/club-review/app/shared/apierr"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Message is the body of delete responses.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err through apierr and writes the envelope. Errors that are
// not client-class are logged and reported generically.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, body, ok := apierr.Map(err)
	if !ok {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	WriteJSON(w, status, apierr.ErrResponse{Error: body})
}

// BadRequest writes a 400 with message.
func BadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, apierr.ErrResponse{Error: apierr.APIError{
		Code:    apierr.BadRequest.Code,
		Message: message,
	}})
}

// DecodeObject reads a JSON object body into a generic map. Numbers are kept
// as json.Number so that integer validators can reject fractions. An empty
// object counts as no input.
func DecodeObject(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return nil, validation.Fail("", validation.KindRequired, "Could not read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, validation.Fail("", validation.KindRequired, "No input data provided")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, validation.Fail("", validation.KindType, "Request body must be a JSON object")
		}
		return nil, validation.Fail("", validation.KindFormat, "Malformed JSON body")
	}
	if len(data) == 0 {
		return nil, validation.Fail("", validation.KindRequired, "No input data provided")
	}
	return data, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Fail(key, validation.KindType, "%s must be an integer", key)
	}
	return n, nil
}

// PathID parses a positive numeric path segment.
func PathID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Fail(field, validation.KindFormat, "%s must be a positive integer", field)
	}
	return id, nil
}
