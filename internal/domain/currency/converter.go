package currency

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/linkmint/linkmint-api/internal/pkg/metrics"
)

// Precision is the fixed decimal precision for persisted amounts.
const Precision = 4

// Round rounds a monetary amount half-up to the configured precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// RateFetcher retrieves fresh rates for a base currency from an external
// source. Implementations must respect the context deadline.
type RateFetcher interface {
	Fetch(ctx context.Context) (base string, rates map[string]decimal.Decimal, err error)
}

// Converter converts amounts between currencies through a last-known-rate
// cache. The cache is read-mostly; refreshes swap rates under a write lock
// so readers always see either the old or the new rate. On refresh failure
// the stale cached rate keeps serving, a stale rate is preferred over a
// stalled ledger operation.
type Converter struct {
	db      *sqlx.DB
	fetcher RateFetcher
	base    string

	mu          sync.RWMutex
	rates       map[string]decimal.Decimal // key "FROM:TO"
	lastRefresh time.Time
}

func NewConverter(db *sqlx.DB, fetcher RateFetcher, baseCurrency string) *Converter {
	return &Converter{
		db:      db,
		fetcher: fetcher,
		base:    baseCurrency,
		rates:   make(map[string]decimal.Decimal),
	}
}

// Convert converts amount from one currency unit to another, rounded
// half-up to the fixed precision. Identical units convert at rate 1.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return Round(amount), nil
	}

	rate, err := c.rateFor(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(amount.Mul(rate)), nil
}

func (c *Converter) rateFor(from, to string) (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if rate, ok := c.rates[from+":"+to]; ok {
		return rate, nil
	}

	// Cross rate through the base currency.
	toBase, ok1 := c.rates[c.base+":"+from]
	fromBase, ok2 := c.rates[c.base+":"+to]
	if ok1 && ok2 && !toBase.IsZero() {
		return fromBase.Div(toBase), nil
	}

	return decimal.Zero, ErrRateUnavailable
}

// SetRate installs a single rate. Used for seeding and tests.
func (c *Converter) SetRate(from, to string, rate decimal.Decimal) error {
	if rate.Sign() <= 0 {
		return ErrInvalidRate
	}
	c.mu.Lock()
	c.rates[from+":"+to] = rate
	c.mu.Unlock()
	return nil
}

// LoadFromStore seeds the cache with the last persisted rates so a cold
// start does not depend on the external rate API being reachable.
func (c *Converter) LoadFromStore(ctx context.Context) error {
	rows := []struct {
		FromUnit string          `db:"from_unit"`
		ToUnit   string          `db:"to_unit"`
		Rate     decimal.Decimal `db:"rate"`
	}{}
	if err := c.db.SelectContext(ctx, &rows, `SELECT from_unit, to_unit, rate FROM exchange_rates`); err != nil {
		return err
	}

	c.mu.Lock()
	for _, row := range rows {
		c.rates[row.FromUnit+":"+row.ToUnit] = row.Rate
	}
	c.mu.Unlock()

	log.Info().Int("rates", len(rows)).Msg("Seeded exchange rate cache from store")
	return nil
}

// Refresh fetches fresh rates and swaps them into the cache. On failure the
// cached rates keep serving and the staleness is logged.
func (c *Converter) Refresh(ctx context.Context) error {
	base, fresh, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.mu.RLock()
		staleSince := c.lastRefresh
		c.mu.RUnlock()

		metrics.ObserveRateRefresh("error")
		log.Warn().
			Err(err).
			Time("stale_since", staleSince).
			Msg("Rate refresh failed, serving cached rates")
		return err
	}

	now := time.Now()

	c.mu.Lock()
	for cur, rate := range fresh {
		if rate.Sign() > 0 {
			c.rates[base+":"+cur] = rate
		}
	}
	c.lastRefresh = now
	c.mu.Unlock()

	if err := c.persist(ctx, base, fresh, now); err != nil {
		log.Error().Err(err).Msg("Failed to persist refreshed rates")
	}

	metrics.ObserveRateRefresh("success")
	return nil
}

func (c *Converter) persist(ctx context.Context, base string, fresh map[string]decimal.Decimal, at time.Time) error {
	if c.db == nil {
		return nil
	}
	for cur, rate := range fresh {
		if rate.Sign() <= 0 {
			continue
		}
		if _, err := c.db.ExecContext(ctx, `
			INSERT INTO exchange_rates (from_unit, to_unit, rate, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (from_unit, to_unit) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
		`, base, cur, rate, at); err != nil {
			return err
		}
	}
	return nil
}

// StartRefreshLoop refreshes rates periodically until the context ends.
func (c *Converter) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Initial refresh; errors already logged, cache stays usable.
		c.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Refresh(ctx)
			}
		}
	}()
}
