// Package apierr maps service errors to HTTP status codes and the JSON error
// envelope.
package apierr

import (
	"errors"
	"net/http"

	"github.com/Black-And-White-Club/club-review/app/integrity"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrResponse struct {
	Error APIError `json:"error"`
}

var (
	BadRequest = APIError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request body",
	}
	NotFound = APIError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	TooManyRequests = APIError{
		Code:    "RATE_LIMITED",
		Message: "too many requests",
	}
	InternalServerError = APIError{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "internal server error",
	}
)

// Map classifies err. ok is false for errors that are not client-class; the
// returned status and body are then the generic 500 response.
func Map(err error) (int, APIError, bool) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		switch verr.Kind {
		case validation.KindDuplicate:
			return http.StatusConflict, APIError{Code: "DUPLICATE", Message: verr.Message}, true
		case validation.KindReference:
			return http.StatusBadRequest, APIError{Code: "INVALID_REFERENCE", Message: verr.Message}, true
		default:
			return http.StatusBadRequest, APIError{Code: "VALIDATION_FAILED", Message: verr.Message}, true
		}

	case errors.Is(err, integrity.ErrNotFound):
		return http.StatusNotFound, APIError{Code: NotFound.Code, Message: err.Error()}, true

	default:
		return http.StatusInternalServerError, InternalServerError, false
	}
}
