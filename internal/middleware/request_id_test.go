package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/linkmint/linkmint-api/internal/middleware"
	"github.com/linkmint/linkmint-api/internal/pkg/logger"
)

func TestRequestIDPropagatesDownstream(t *testing.T) {
	var seen string
	var scopedLogger bool

	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
		scopedLogger = logger.FromContext(r.Context()) != &log.Logger
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" {
		t.Fatalf("request id in context = %q, want abc-123", seen)
	}
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("response header = %q", rec.Header().Get("X-Request-ID"))
	}
	if !scopedLogger {
		t.Fatal("request-scoped logger was not attached to the context")
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", seen, err)
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatal("response header and context id differ")
	}
}

func TestGetRequestIDOutsideRequest(t *testing.T) {
	if got := middleware.GetRequestID(context.Background()); got != "unknown" {
		t.Fatalf("got %q, want unknown", got)
	}
}
