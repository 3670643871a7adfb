package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind of notification raised by the ledger engine.
type Kind string

const (
	KindCommissionPaid Kind = "commission_paid"
	KindUnitSpentOut   Kind = "unit_spent_out"
	KindMerchantCharge Kind = "merchant_charge"
)

// Notification is a stored message for an account.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Kind      Kind      `db:"kind" json:"kind"`
	Payload   []byte    `db:"payload" json:"payload"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
