package ledger

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Store is the shared persistence abstraction for money movement. All
// balance mutations in the distributor and the monetizer run inside exactly
// one WithTransaction call.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// WithTransaction runs fn inside a read-committed transaction. Any error or
// panic rolls the whole transaction back; partial commissions or partial
// charges never persist.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// CreditEarningsTx adds a commission payout to a beneficiary's wallet and
// cumulative earnings.
func (s *Store) CreditEarningsTx(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET wallet_balance = wallet_balance + $1,
		    cumulative_earnings = cumulative_earnings + $1,
		    updated_at = now()
		WHERE id = $2
	`, amount, accountID)
	return err
}

// ChargeMerchantTx adds a click/impression charge to the owning merchant's
// payable balance.
func (s *Store) ChargeMerchantTx(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET amount_to_pay = amount_to_pay + $1,
		    updated_at = now()
		WHERE id = $2
	`, amount, accountID)
	return err
}

// AppendTransactionTx inserts the audit row paired with a balance mutation.
func (s *Store) AppendTransactionTx(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, kind Kind, amount decimal.Decimal, reference string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_transactions (id, account_id, kind, amount, status, reference)
		VALUES ($1, $2, $3, $4, 'completed', $5)
	`, uuid.New(), accountID, kind, amount, reference)
	return err
}

// SumByKind returns the total ledger amount of one kind for an account.
// Used to audit the commission/ledger balance invariant.
func (s *Store) SumByKind(ctx context.Context, accountID uuid.UUID, kind Kind) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_transactions
		WHERE account_id = $1 AND kind = $2
	`, accountID, kind)
	return total, err
}

// ListByAccount returns ledger history for an account, newest first.
func (s *Store) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := []Transaction{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, kind, amount, status, reference, created_at
		FROM ledger_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	return rows, err
}
