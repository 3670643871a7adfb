package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger transaction.
type Kind string

const (
	KindCommission Kind = "commission"
	KindPayment    Kind = "payment"
)

// Transaction is an append-only audit row. Every balance mutation is paired
// with exactly one such row inside the same database transaction.
type Transaction struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	AccountID uuid.UUID       `db:"account_id" json:"account_id"`
	Kind      Kind            `db:"kind" json:"kind"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    string          `db:"status" json:"status"`
	Reference string          `db:"reference" json:"reference"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
