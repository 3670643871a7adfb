package errorhandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/linkmint/linkmint-api/internal/pkg/logger"
	"github.com/linkmint/linkmint-api/internal/pkg/response"
)

// HandleError logs the error details and sends a formatted error response.
// The context logger already carries the request ID when the request went
// through the RequestID middleware.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status)

	if err != nil {
		event = event.Err(err)
	}

	event.Msg("Request error")

	response.Error(w, status, code, message)
}

// LogDatabaseError logs database errors with context
func LogDatabaseError(ctx context.Context, operation string, err error, query string) {
	logger.FromContext(ctx).Error().
		Str("operation", operation).
		Str("query", query).
		Err(err).
		Msg("Database error")
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	errJSON, _ := json.Marshal(fieldErrors)
	logger.FromContext(ctx).Warn().
		RawJSON("validation_errors", errJSON).
		Msg("Validation error")
}

// LogExternalServiceError logs errors from external service calls
func LogExternalServiceError(ctx context.Context, service string, endpoint string, statusCode int, err error) {
	logger.FromContext(ctx).Error().
		Str("external_service", service).
		Str("endpoint", endpoint).
		Int("status_code", statusCode).
		Err(err).
		Msg("External service error")
}
