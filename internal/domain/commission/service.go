package commission

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/linkmint/linkmint-api/internal/domain/account"
	"github.com/linkmint/linkmint-api/internal/domain/currency"
	"github.com/linkmint/linkmint-api/internal/domain/ledger"
	"github.com/linkmint/linkmint-api/internal/domain/notification"
	"github.com/linkmint/linkmint-api/internal/domain/referral"
	"github.com/linkmint/linkmint-api/internal/domain/settings"
	"github.com/linkmint/linkmint-api/internal/pkg/metrics"
)

// Distributor converts activation events into per-level commission payouts.
type Distributor struct {
	store     *ledger.Store
	accounts  *account.Repository
	resolver  *referral.Resolver
	referrals *referral.Repository
	repo      *Repository
	converter *currency.Converter
	settings  *settings.Store
	sink      notification.Sink
}

func NewDistributor(
	store *ledger.Store,
	accounts *account.Repository,
	resolver *referral.Resolver,
	referrals *referral.Repository,
	repo *Repository,
	converter *currency.Converter,
	settingsStore *settings.Store,
	sink notification.Sink,
) *Distributor {
	if sink == nil {
		sink = notification.NopSink{}
	}
	return &Distributor{
		store:     store,
		accounts:  accounts,
		resolver:  resolver,
		referrals: referrals,
		repo:      repo,
		converter: converter,
		settings:  settingsStore,
		sink:      sink,
	}
}

// DistributeActivationCommission pays the upline of a freshly activated
// account. The pending-to-active status flip is the top-level idempotency
// gate: a replay for an already-active account distributes nothing. Each
// beneficiary is paid in its own transaction so one failure does not block
// the rest of the chain; per-level replays are additionally blocked by the
// commission uniqueness constraint.
func (d *Distributor) DistributeActivationCommission(ctx context.Context, activatedID uuid.UUID) ([]Record, error) {
	var activated bool
	err := d.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		ok, err := d.accounts.ActivateTx(ctx, tx, activatedID)
		activated = ok
		return err
	})
	if err != nil {
		return nil, err
	}
	if !activated {
		if _, err := d.accounts.GetByID(ctx, activatedID); err != nil {
			return nil, err
		}
		return nil, account.ErrAlreadyActive
	}

	maxLevels := d.settings.GetInt(ctx, settings.KeyCommissionMaxLevels, 2)
	base := d.settings.GetString(ctx, settings.KeyBaseCurrency, "USD")

	chain, err := d.resolver.Resolve(ctx, activatedID, maxLevels)
	if err != nil {
		return nil, err
	}

	paid := make([]Record, 0, len(chain))
	referred := activatedID
	for _, entry := range chain {
		rec, err := d.payLevel(ctx, activatedID, referred, entry, base)
		if err != nil {
			if errors.Is(err, ErrDuplicateCommission) {
				log.Info().
					Str("beneficiary", entry.AccountID.String()).
					Int("level", entry.Level).
					Msg("commission already paid, skipping")
			} else {
				log.Error().Err(err).
					Str("beneficiary", entry.AccountID.String()).
					Int("level", entry.Level).
					Msg("commission payout failed, continuing with next level")
			}
			referred = entry.AccountID
			continue
		}
		if rec != nil {
			paid = append(paid, *rec)
		}
		referred = entry.AccountID
	}

	return paid, nil
}

// payLevel computes and persists a single beneficiary's payout.
func (d *Distributor) payLevel(ctx context.Context, activatedID, referredID uuid.UUID, entry referral.ChainEntry, base string) (*Record, error) {
	amount, err := d.settings.CommissionAmountForLevel(ctx, entry.Level)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, nil
	}

	earningCurrency := entry.EarningCurrency
	if earningCurrency == "" {
		earningCurrency = base
	}

	converted, err := d.converter.Convert(amount, base, earningCurrency)
	if err != nil {
		return nil, fmt.Errorf("convert %s to %s: %w", base, earningCurrency, err)
	}
	amountUSD, err := d.converter.Convert(amount, base, "USD")
	if err != nil {
		return nil, fmt.Errorf("convert %s to USD: %w", base, err)
	}

	rec := Record{
		ID:                   uuid.New(),
		EventType:            EventActivation,
		SourceAccountID:      activatedID,
		BeneficiaryAccountID: entry.AccountID,
		Level:                entry.Level,
		AmountSource:         converted,
		AmountUSD:            amountUSD,
		Currency:             earningCurrency,
		Status:               StatusPaid,
	}

	err = d.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := d.repo.InsertTx(ctx, tx, &rec); err != nil {
			return err
		}
		if err := d.store.CreditEarningsTx(ctx, tx, entry.AccountID, converted); err != nil {
			return err
		}
		reference := fmt.Sprintf("activation commission level %d for account %s", entry.Level, activatedID)
		if err := d.store.AppendTransactionTx(ctx, tx, entry.AccountID, ledger.KindCommission, converted, reference); err != nil {
			return err
		}
		return d.referrals.MarkCommissionPaidTx(ctx, tx, entry.AccountID, referredID)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveCommission(strconv.Itoa(entry.Level))
	d.notify(ctx, rec)
	return &rec, nil
}

// DistributeSaleCommission is the single-payee variant used for product
// sales: only the direct referrer of the buyer earns, once per sale
// reference.
func (d *Distributor) DistributeSaleCommission(ctx context.Context, buyerID uuid.UUID, saleRef string, amount decimal.Decimal) (*Record, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	chain, err := d.resolver.Resolve(ctx, buyerID, 1)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, nil
	}

	base := d.settings.GetString(ctx, settings.KeyBaseCurrency, "USD")
	entry := chain[0]

	earningCurrency := entry.EarningCurrency
	if earningCurrency == "" {
		earningCurrency = base
	}

	converted, err := d.converter.Convert(amount, base, earningCurrency)
	if err != nil {
		return nil, err
	}
	amountUSD, err := d.converter.Convert(amount, base, "USD")
	if err != nil {
		return nil, err
	}

	rec := Record{
		ID:                   uuid.New(),
		EventType:            EventType(fmt.Sprintf(eventSaleShape, saleRef)),
		SourceAccountID:      buyerID,
		BeneficiaryAccountID: entry.AccountID,
		Level:                1,
		AmountSource:         converted,
		AmountUSD:            amountUSD,
		Currency:             earningCurrency,
		Status:               StatusPaid,
	}

	err = d.store.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := d.repo.InsertTx(ctx, tx, &rec); err != nil {
			return err
		}
		if err := d.store.CreditEarningsTx(ctx, tx, entry.AccountID, converted); err != nil {
			return err
		}
		reference := fmt.Sprintf("sale commission %s from account %s", saleRef, buyerID)
		return d.store.AppendTransactionTx(ctx, tx, entry.AccountID, ledger.KindCommission, converted, reference)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveCommission("sale")
	d.notify(ctx, rec)
	return &rec, nil
}

// notify is best-effort: failures are logged and never reverse a payout.
func (d *Distributor) notify(ctx context.Context, rec Record) {
	payload := map[string]interface{}{
		"commission_id": rec.ID.String(),
		"source":        rec.SourceAccountID.String(),
		"level":         rec.Level,
		"amount":        rec.AmountSource.String(),
		"currency":      rec.Currency,
	}

	if err := d.sink.Notify(ctx, rec.BeneficiaryAccountID, notification.KindCommissionPaid, payload); err != nil {
		log.Warn().Err(err).Str("beneficiary", rec.BeneficiaryAccountID.String()).Msg("beneficiary notification failed")
	}
	if err := d.sink.Notify(ctx, notification.AdminAccountID, notification.KindCommissionPaid, payload); err != nil {
		log.Warn().Err(err).Msg("admin notification failed")
	}
}
