package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddleware_ReplacesUnsafeIDs(t *testing.T) {
	inputs := []string{
		"abc\nlevel=error msg=forged",
		"id with spaces",
		strings.Repeat("a", 65),
	}

	for _, in := range inputs {
		var seen string
		handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, in)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, in, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	}
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestIDMiddleware(LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/9?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, int64(7), fields["bytes"])
	assert.Equal(t, "x=1", fields["query"])
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRecoveryMiddleware_AbortHandlerPropagates(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Zero(t, logs.Len())
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		origin   string
		method   string
		expected string
		status   int
	}{
		{name: "allowed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", method: http.MethodGet, expected: "http://localhost:3000", status: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://example.com", method: http.MethodGet, expected: "*", status: http.StatusOK},
		{name: "other origin", allowed: []string{"http://localhost:3000"}, origin: "http://evil.com", method: http.MethodGet, expected: "", status: http.StatusOK},
		{name: "no origin", allowed: []string{"*"}, method: http.MethodGet, expected: "", status: http.StatusOK},
		{name: "preflight", allowed: []string{"*"}, origin: "http://example.com", method: http.MethodOptions, expected: "*", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORSMiddleware(tt.allowed)(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

