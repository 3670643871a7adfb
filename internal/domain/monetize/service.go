package monetize

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/linkmint/linkmint-api/internal/domain/ledger"
	"github.com/linkmint/linkmint-api/internal/domain/notification"
	"github.com/linkmint/linkmint-api/internal/domain/settings"
	"github.com/linkmint/linkmint-api/internal/pkg/metrics"
)

// Monetizer converts click and impression events on a unit into charges
// against the owning merchant.
type Monetizer struct {
	store            *ledger.Store
	repo             *Repository
	settings         *settings.Store
	sink             notification.Sink
	defaultBatchSize int
}

func NewMonetizer(store *ledger.Store, repo *Repository, settingsStore *settings.Store, sink notification.Sink, defaultBatchSize int) *Monetizer {
	if sink == nil {
		sink = notification.NopSink{}
	}
	if defaultBatchSize <= 0 {
		defaultBatchSize = 1000
	}
	return &Monetizer{
		store:            store,
		repo:             repo,
		settings:         settingsStore,
		sink:             sink,
		defaultBatchSize: defaultBatchSize,
	}
}

// RecordClick tracks a click, charges the owner when the unit is still
// active and billable, and returns the redirect target. The target URL is
// read before the transaction so a tracking failure never blocks the
// visitor's redirect.
func (m *Monetizer) RecordClick(ctx context.Context, unitID uuid.UUID, actor Actor) (*ClickResult, error) {
	unit, err := m.repo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	var charged, becameInactive bool
	err = m.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		ev := &UnitEvent{
			ID:        uuid.New(),
			UnitID:    unitID,
			EventType: EventClick,
			ActorID:   actor.ID,
			IP:        actor.IP,
			UserAgent: actor.UserAgent,
		}
		if err := m.repo.InsertEventTx(ctx, tx, ev); err != nil {
			return fmt.Errorf("%w: %v", ErrTrackingFailed, err)
		}

		matched, nowActive, err := m.repo.ApplyClickTx(ctx, tx, unitID)
		if err != nil {
			return err
		}
		if !matched {
			// Spent out: the click is tracked but never billed.
			return nil
		}
		becameInactive = !nowActive

		if unit.CostPerClick.Sign() > 0 {
			if err := m.store.ChargeMerchantTx(ctx, tx, unit.OwnerAccountID, unit.CostPerClick); err != nil {
				return err
			}
			reference := fmt.Sprintf("click charge on %s %s", unit.Kind, unit.ID)
			if err := m.store.AppendTransactionTx(ctx, tx, unit.OwnerAccountID, ledger.KindPayment, unit.CostPerClick, reference); err != nil {
				return err
			}
			charged = true
		}
		return nil
	})
	if err != nil {
		metrics.ObserveClick("error")
		log.Error().Err(err).Str("unit_id", unitID.String()).Msg("click tracking failed")
		// The visitor is still redirected; the failure is an operator concern.
		return &ClickResult{RedirectTarget: unit.TargetURL}, err
	}

	metrics.ObserveClick("ok")
	if charged {
		metrics.ObserveCharge("click")
		m.notifyCharge(ctx, unit, string(EventClick), unit.CostPerClick)
	}
	if becameInactive {
		metrics.ObserveUnitDisabled()
		m.notifySpentOut(ctx, unit)
	}

	return &ClickResult{RedirectTarget: unit.TargetURL, Charged: charged}, nil
}

// RecordImpression tracks an impression and bills the owner once per full
// batch, charging cost_per_impression for the whole batch at once. Batching
// bounds the write rate on high-volume banners.
func (m *Monetizer) RecordImpression(ctx context.Context, unitID uuid.UUID, actor Actor) (*ImpressionResult, error) {
	unit, err := m.repo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	batchSize := int64(m.settings.GetInt(ctx, settings.KeyImpressionBatchSize, m.defaultBatchSize))
	if batchSize <= 0 {
		batchSize = int64(m.defaultBatchSize)
	}

	var charged bool
	var batchCharge decimal.Decimal
	err = m.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		ev := &UnitEvent{
			ID:        uuid.New(),
			UnitID:    unitID,
			EventType: EventImpression,
			ActorID:   actor.ID,
			IP:        actor.IP,
			UserAgent: actor.UserAgent,
		}
		if err := m.repo.InsertEventTx(ctx, tx, ev); err != nil {
			return fmt.Errorf("%w: %v", ErrTrackingFailed, err)
		}

		matched, impressions, err := m.repo.ApplyImpressionTx(ctx, tx, unitID)
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}

		if unit.CostPerImpression.Sign() > 0 && impressions%batchSize == 0 {
			charge := unit.CostPerImpression.Mul(decimal.NewFromInt(batchSize))
			if err := m.store.ChargeMerchantTx(ctx, tx, unit.OwnerAccountID, charge); err != nil {
				return err
			}
			reference := fmt.Sprintf("impression batch charge (%d) on %s %s", batchSize, unit.Kind, unit.ID)
			if err := m.store.AppendTransactionTx(ctx, tx, unit.OwnerAccountID, ledger.KindPayment, charge, reference); err != nil {
				return err
			}
			charged = true
			batchCharge = charge
		}
		return nil
	})
	if err != nil {
		metrics.ObserveImpression("error")
		log.Error().Err(err).Str("unit_id", unitID.String()).Msg("impression tracking failed")
		return nil, err
	}

	metrics.ObserveImpression("ok")
	if charged {
		metrics.ObserveCharge("impression")
		m.notifyCharge(ctx, unit, string(EventImpression), batchCharge)
	}
	return &ImpressionResult{Charged: charged}, nil
}

// notifyCharge tells the owning merchant about a billed click or impression
// batch. Best-effort, like every sink call.
func (m *Monetizer) notifyCharge(ctx context.Context, unit *Unit, source string, amount decimal.Decimal) {
	payload := map[string]interface{}{
		"unit_id": unit.ID.String(),
		"kind":    string(unit.Kind),
		"source":  source,
		"amount":  amount.String(),
	}
	if err := m.sink.Notify(ctx, unit.OwnerAccountID, notification.KindMerchantCharge, payload); err != nil {
		log.Warn().Err(err).Str("unit_id", unit.ID.String()).Msg("charge notification failed")
	}
}

func (m *Monetizer) notifySpentOut(ctx context.Context, unit *Unit) {
	payload := map[string]interface{}{
		"unit_id":      unit.ID.String(),
		"kind":         string(unit.Kind),
		"click_target": unit.ClickTarget,
	}
	if err := m.sink.Notify(ctx, unit.OwnerAccountID, notification.KindUnitSpentOut, payload); err != nil {
		log.Warn().Err(err).Str("unit_id", unit.ID.String()).Msg("spent-out notification failed")
	}
}
