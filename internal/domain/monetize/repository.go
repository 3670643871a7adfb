package monetize

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

func (r *Repository) Create(ctx context.Context, u *Unit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO monetized_units (id, owner_account_id, kind, target_url, cost_per_click, cost_per_impression, click_target, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
	`, u.ID, u.OwnerAccountID, u.Kind, u.TargetURL, u.CostPerClick, u.CostPerImpression, u.ClickTarget)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Unit, error) {
	var u Unit
	err := r.db.GetContext(ctx, &u, `
		SELECT id, owner_account_id, kind, target_url, cost_per_click, cost_per_impression, click_target, clicks_so_far, impressions_so_far, is_active, created_at, updated_at
		FROM monetized_units
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Approve flips a freshly created unit to active. Spent-out units are not
// reactivated here; that path goes through RaiseTarget.
func (r *Repository) Approve(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE monetized_units
		SET is_active = true, updated_at = now()
		WHERE id = $1 AND clicks_so_far = 0 AND NOT is_active
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUnitNotApproved
	}
	return nil
}

// RaiseTarget is the operator path to reactivate a spent-out unit: the new
// target must exceed the clicks already recorded.
func (r *Repository) RaiseTarget(ctx context.Context, id uuid.UUID, newTarget int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE monetized_units
		SET click_target = $1,
		    is_active = ($1 = 0 OR clicks_so_far < $1),
		    updated_at = now()
		WHERE id = $2 AND ($1 = 0 OR $1 > click_target)
	`, newTarget, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTarget
	}
	return nil
}

// InsertEventTx writes the unconditional audit row for a click/impression.
func (r *Repository) InsertEventTx(ctx context.Context, tx *sqlx.Tx, ev *UnitEvent) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO unit_events (id, unit_id, event_type, actor_id, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.UnitID, ev.EventType, ev.ActorID, ev.IP, ev.UserAgent)
	return err
}

// clickState is the unit state right after a matched conditional update.
type clickState struct {
	ClicksSoFar int64 `db:"clicks_so_far"`
	IsActive    bool  `db:"is_active"`
}

// ApplyClickTx is the compare-and-swap at the heart of click monetization:
// a single conditional update increments the counter and recomputes
// is_active, guarded by WHERE is_active. Two concurrent clicks racing past
// the target cannot both match; the loser observes zero affected rows and
// is tracked without billing. A click_target of 0 short-circuits to always
// active.
func (r *Repository) ApplyClickTx(ctx context.Context, tx *sqlx.Tx, unitID uuid.UUID) (matched bool, nowActive bool, err error) {
	var state clickState
	err = tx.GetContext(ctx, &state, `
		UPDATE monetized_units
		SET clicks_so_far = clicks_so_far + 1,
		    is_active = (click_target = 0 OR clicks_so_far + 1 < click_target),
		    updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING clicks_so_far, is_active
	`, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, state.IsActive, nil
}

// ApplyImpressionTx mirrors ApplyClickTx for impressions. Impressions do
// not count toward the click target; the conditional update only guards
// against tracking on disabled units and returns the post-increment count
// for batch billing.
func (r *Repository) ApplyImpressionTx(ctx context.Context, tx *sqlx.Tx, unitID uuid.UUID) (matched bool, impressions int64, err error) {
	var count int64
	err = tx.GetContext(ctx, &count, `
		UPDATE monetized_units
		SET impressions_so_far = impressions_so_far + 1,
		    updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING impressions_so_far
	`, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, count, nil
}
