package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, wallet_balance, cumulative_earnings, amount_to_pay, referrer_id, activation_status, earning_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.WalletBalance, a.CumulativeEarnings, a.AmountToPay, a.ReferrerID, a.ActivationStatus, a.EarningCurrency)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, `
		SELECT id, wallet_balance, cumulative_earnings, amount_to_pay, referrer_id, activation_status, earning_currency, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ActivateTx flips a pending account to active inside an existing transaction.
// Returns false when the account was not pending, which callers use as the
// top-level idempotency gate for commission distribution.
func (r *Repository) ActivateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET activation_status = $1, updated_at = now()
		WHERE id = $2 AND activation_status = $3
	`, StatusActive, id, StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
