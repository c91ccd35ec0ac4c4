package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/club-review/app/shared/apierr"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind validation.Kind
	}{
		{name: "object", body: `{"rating": 8, "title": "Great club"}`},
		{name: "empty body", body: "", wantKind: validation.KindRequired},
		{name: "null", body: "null", wantKind: validation.KindRequired},
		{name: "empty object", body: " {} ", wantKind: validation.KindRequired},
		{name: "array", body: `[1,2]`, wantKind: validation.KindType},
		{name: "garbage", body: `{"rating":`, wantKind: validation.KindFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(tt.body))
			data, err := DecodeObject(req)
			if tt.wantKind != "" {
				assert.True(t, validation.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, json.Number("8"), data["rating"])
		})
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
	WriteError(rr, req, logger, errors.New("relation \"clubs\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body apierr.ErrResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, apierr.InternalServerError, body.Error)
	assert.NotContains(t, rr.Body.String(), "relation")
}

func TestQueryIntAndPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/reviews?page=3&per_page=x", nil)

	page, err := QueryInt(req, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = QueryInt(req, "per_page", 10)
	assert.True(t, validation.IsKind(err, validation.KindType))

	def, err := QueryInt(req, "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, def)

	id, err := PathID("42", "user_id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathID("0", "user_id")
	assert.Error(t, err)
	_, err = PathID("abc", "user_id")
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return frozen }

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	h := MutatingOnly(RateLimit(limiter))(ok)

	codes := make([]int, 0, 4)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/clubs", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, http.StatusCreated, codes[0])
	assert.Equal(t, http.StatusCreated, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, "reads are not limited")
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://pennclubs.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/clubs", nil)
	req.Header.Set("Origin", "https://pennclubs.example")
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://pennclubs.example", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/clubs", nil)
	req.Header.Set("Origin", "https://evil.example")
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clubs", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "HTTP request", line["msg"])
	assert.Equal(t, "/api/clubs", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}
