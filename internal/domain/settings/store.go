package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Well-known setting keys.
const (
	KeyCommissionMaxLevels  = "commission.max_levels"
	KeyBaseCurrency         = "commission.base_currency"
	KeyImpressionBatchSize  = "monetize.impression_batch_size"
	keyCommissionLevelShape = "commission.level.%d"
)

const cacheTTL = 5 * time.Minute

var ErrKeyNotFound = errors.New("setting not found")

// Defaults seeds missing keys at startup. Values are strings, matching the
// system_settings table.
type Defaults struct {
	MaxLevels           int
	LevelAmounts        map[int]string
	BaseCurrency        string
	ImpressionBatchSize int
}

// Store is a read-only cached key lookup over the system_settings table.
// Reads go through Redis when available and fall back to a small in-process
// cache otherwise; the ledger engine never writes settings at runtime.
type Store struct {
	db    *sqlx.DB
	redis *redis.Client

	mu    sync.RWMutex
	local map[string]localEntry
}

type localEntry struct {
	value   string
	expires time.Time
}

func NewStore(db *sqlx.DB, redisClient *redis.Client) *Store {
	return &Store{
		db:    db,
		redis: redisClient,
		local: make(map[string]localEntry),
	}
}

// Seed inserts default values for keys that are not configured yet.
func (s *Store) Seed(ctx context.Context, d Defaults) error {
	pairs := map[string]string{
		KeyCommissionMaxLevels: strconv.Itoa(d.MaxLevels),
		KeyBaseCurrency:        d.BaseCurrency,
		KeyImpressionBatchSize: strconv.Itoa(d.ImpressionBatchSize),
	}
	for level, amount := range d.LevelAmounts {
		pairs[fmt.Sprintf(keyCommissionLevelShape, level)] = amount
	}

	for key, value := range pairs {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO system_settings (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw value for a key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.cached(ctx, key); ok {
		return value, nil
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM system_settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}

	s.cache(ctx, key, value)
	return value, nil
}

// GetInt returns an integer setting, falling back to def when the key is
// missing or malformed.
func (s *Store) GetInt(ctx context.Context, key string, def int) int {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Malformed integer setting, using default")
		return def
	}
	return value
}

// GetString returns a string setting with a default.
func (s *Store) GetString(ctx context.Context, key string, def string) string {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	return raw
}

// CommissionAmountForLevel returns the configured flat commission amount
// for a chain level, in the system's base currency. Unconfigured levels pay
// nothing.
func (s *Store) CommissionAmountForLevel(ctx context.Context, level int) (decimal.Decimal, error) {
	raw, err := s.Get(ctx, fmt.Sprintf(keyCommissionLevelShape, level))
	if errors.Is(err, ErrKeyNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Int("level", level).Str("value", raw).Msg("Malformed commission amount, paying nothing")
		return decimal.Zero, nil
	}
	return amount, nil
}

func (s *Store) cached(ctx context.Context, key string) (string, bool) {
	if s.redis != nil {
		value, err := s.redis.Get(ctx, redisKey(key)).Result()
		if err == nil {
			return value, true
		}
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Settings cache read failed")
		}
	}

	s.mu.RLock()
	entry, ok := s.local[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.value, true
	}
	return "", false
}

func (s *Store) cache(ctx context.Context, key, value string) {
	if s.redis != nil {
		if err := s.redis.Set(ctx, redisKey(key), value, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Settings cache write failed")
		}
	}

	s.mu.Lock()
	s.local[key] = localEntry{value: value, expires: time.Now().Add(cacheTTL)}
	s.mu.Unlock()
}

func redisKey(key string) string {
	return "settings:" + key
}
