package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names the event that produced a commission.
type EventType string

const (
	EventActivation EventType = "activation"
	// Sale commissions embed the sale reference so each sale is paid once.
	eventSaleShape = "sale:%s"
)

// Status of a commission record.
type Status string

const (
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Record is an immutable commission fact. At most one non-cancelled record
// exists per (source, beneficiary, level, event type); the storage layer
// enforces this with a partial unique index.
type Record struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	EventType            EventType       `db:"event_type" json:"event_type"`
	SourceAccountID      uuid.UUID       `db:"source_account_id" json:"source_account_id"`
	BeneficiaryAccountID uuid.UUID       `db:"beneficiary_account_id" json:"beneficiary_account_id"`
	Level                int             `db:"level" json:"level"`
	AmountSource         decimal.Decimal `db:"amount_source" json:"amount_source"`
	AmountUSD            decimal.Decimal `db:"amount_usd" json:"amount_usd"`
	Currency             string          `db:"currency" json:"currency"`
	Status               Status          `db:"status" json:"status"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}
