package referral

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

func (r *Repository) Create(ctx context.Context, ref *Referral) error {
	if ref.ReferrerID == ref.ReferredID {
		return ErrSelfReferral
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO referrals (id, referrer_id, referred_id, status)
		VALUES ($1, $2, $3, $4)
	`, ref.ID, ref.ReferrerID, ref.ReferredID, ref.Status)
	return err
}

func (r *Repository) GetByReferredID(ctx context.Context, referredID uuid.UUID) (*Referral, error) {
	var ref Referral
	err := r.db.GetContext(ctx, &ref, `
		SELECT id, referrer_id, referred_id, status, created_at, updated_at
		FROM referrals
		WHERE referred_id = $1
	`, referredID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// chainLink is one hop of the referrer walk.
type chainLink struct {
	ID              uuid.UUID  `db:"id"`
	ReferrerID      *uuid.UUID `db:"referrer_id"`
	EarningCurrency string     `db:"earning_currency"`
}

// GetChainLink reads the referrer pointer for a single account.
func (r *Repository) GetChainLink(ctx context.Context, accountID uuid.UUID) (uuid.UUID, *uuid.UUID, string, error) {
	var link chainLink
	err := r.db.GetContext(ctx, &link, `
		SELECT id, referrer_id, earning_currency
		FROM accounts
		WHERE id = $1
	`, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil, "", ErrNotFound
	}
	if err != nil {
		return uuid.Nil, nil, "", err
	}
	return link.ID, link.ReferrerID, link.EarningCurrency, nil
}

// MarkCommissionPaidTx marks the referral edge between a beneficiary and the
// account it referred as paid, inside an existing transaction.
func (r *Repository) MarkCommissionPaidTx(ctx context.Context, tx *sqlx.Tx, referrerID, referredID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE referrals
		SET status = $1, updated_at = now()
		WHERE referrer_id = $2 AND referred_id = $3
	`, StatusCommissionPaid, referrerID, referredID)
	return err
}
