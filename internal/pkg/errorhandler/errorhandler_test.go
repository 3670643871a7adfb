package errorhandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkmint/linkmint-api/internal/pkg/errorhandler"
	"github.com/linkmint/linkmint-api/internal/pkg/response"
)

func TestHandleErrorWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	errorhandler.HandleError(context.Background(), rec, http.StatusInternalServerError,
		"ACTIVATION_FAILED", "Activation failed, please retry", errors.New("connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Success {
		t.Fatal("success must be false on an error response")
	}
	if body.Error == nil || body.Error.Code != "ACTIVATION_FAILED" {
		t.Fatalf("error envelope = %+v, want code ACTIVATION_FAILED", body.Error)
	}
	if body.Error.Message != "Activation failed, please retry" {
		t.Fatalf("message = %q", body.Error.Message)
	}
}

func TestHandleErrorWithoutCause(t *testing.T) {
	rec := httptest.NewRecorder()

	errorhandler.HandleError(context.Background(), rec, http.StatusBadGateway,
		"UPSTREAM_DOWN", "Upstream unavailable", nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error == nil || body.Error.Code != "UPSTREAM_DOWN" {
		t.Fatalf("error envelope = %+v", body.Error)
	}
}
