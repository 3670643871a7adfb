package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// InsertTx inserts a commission record inside an existing transaction.
// A unique index violation maps to ErrDuplicateCommission so callers can
// treat a replay as a no-op instead of a failure.
func (r *Repository) InsertTx(ctx context.Context, tx *sqlx.Tx, rec *Record) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO commission_records (id, event_type, source_account_id, beneficiary_account_id, level, amount_source, amount_usd, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.EventType, rec.SourceAccountID, rec.BeneficiaryAccountID, rec.Level, rec.AmountSource, rec.AmountUSD, rec.Currency, rec.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCommission
		}
		return err
	}
	return nil
}

// ListBySource returns all non-cancelled records produced by one source
// account for one event type.
func (r *Repository) ListBySource(ctx context.Context, sourceID uuid.UUID, eventType EventType) ([]Record, error) {
	rows := []Record{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, event_type, source_account_id, beneficiary_account_id, level, amount_source, amount_usd, currency, status, created_at
		FROM commission_records
		WHERE source_account_id = $1 AND event_type = $2 AND status <> $3
		ORDER BY level
	`, sourceID, eventType, StatusCancelled)
	return rows, err
}

// ListByBeneficiary returns paginated commission history for a beneficiary.
func (r *Repository) ListByBeneficiary(ctx context.Context, beneficiaryID uuid.UUID, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := []Record{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, event_type, source_account_id, beneficiary_account_id, level, amount_source, amount_usd, currency, status, created_at
		FROM commission_records
		WHERE beneficiary_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, beneficiaryID, limit, offset)
	return rows, err
}
