package referral

import (
	"time"

	"github.com/google/uuid"
)

// Status of a referral relationship.
type Status string

const (
	StatusPending        Status = "pending"
	StatusCommissionPaid Status = "commission_paid"
)

// Referral links a referred account to the account that invited it.
type Referral struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ReferrerID uuid.UUID `db:"referrer_id" json:"referrer_id"`
	ReferredID uuid.UUID `db:"referred_id" json:"referred_id"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ChainEntry is one ancestor in a resolved upline, nearest first.
// Level 1 is the direct referrer.
type ChainEntry struct {
	Level           int
	AccountID       uuid.UUID
	EarningCurrency string
}
