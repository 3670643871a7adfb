package notification

import (
	"context"

	"github.com/google/uuid"
)

// Sink receives fire-and-forget notifications after successful money
// movement. Implementations must never be relied on for correctness;
// callers swallow and log sink errors and never roll back a committed
// transaction because of one.
type Sink interface {
	Notify(ctx context.Context, accountID uuid.UUID, kind Kind, payload map[string]interface{}) error
}

// NopSink discards all notifications. The default for tests and for
// deployments without a notification backend.
type NopSink struct{}

func (NopSink) Notify(ctx context.Context, accountID uuid.UUID, kind Kind, payload map[string]interface{}) error {
	return nil
}
