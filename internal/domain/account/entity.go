package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivationStatus tracks whether an account is eligible to earn.
type ActivationStatus string

const (
	StatusPending   ActivationStatus = "pending"
	StatusActive    ActivationStatus = "active"
	StatusSuspended ActivationStatus = "suspended"
)

// Account is a user's monetary state. Balances are mutated only inside
// ledger transactions, never via plain read-modify-write.
type Account struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	WalletBalance      decimal.Decimal  `db:"wallet_balance" json:"wallet_balance"`
	CumulativeEarnings decimal.Decimal  `db:"cumulative_earnings" json:"cumulative_earnings"`
	AmountToPay        decimal.Decimal  `db:"amount_to_pay" json:"amount_to_pay"`
	ReferrerID         *uuid.UUID       `db:"referrer_id" json:"referrer_id,omitempty"`
	ActivationStatus   ActivationStatus `db:"activation_status" json:"activation_status"`
	EarningCurrency    string           `db:"earning_currency" json:"earning_currency"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}
