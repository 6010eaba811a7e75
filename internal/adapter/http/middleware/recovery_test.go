package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecoveryReturnsJSON500(t *testing.T) {
	var logs bytes.Buffer
	handler := Recovery(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"internal_error"`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Fatalf("expected panic to be logged, got %s", logs.String())
	}
}

func TestLoggingMiddlewareLogsStatus(t *testing.T) {
	var logs bytes.Buffer
	handler := NewLoggingMiddleware(zerolog.New(&logs)).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil))

	out := logs.String()
	if !strings.Contains(out, `"status":201`) || !strings.Contains(out, `"path":"/api/v1/accounts"`) {
		t.Fatalf("unexpected log line %s", out)
	}
}
