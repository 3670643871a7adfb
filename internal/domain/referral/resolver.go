package referral

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChainLookup reads one hop of the referrer graph. Satisfied by Repository.
// Returns the account id, its referrer pointer (nil at the top of a chain)
// and the account's earning currency.
type ChainLookup interface {
	GetChainLink(ctx context.Context, accountID uuid.UUID) (uuid.UUID, *uuid.UUID, string, error)
}

// Resolver walks referrer-of-referrer links up to a bounded depth.
type Resolver struct {
	lookup ChainLookup
}

func NewResolver(lookup ChainLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the ordered upline of an account, nearest first.
// Level 1 is the direct referrer. The walk stops at a nil referrer, at
// maxLevels, or on a cycle. Cycles never occur in valid data but the walk
// must terminate regardless. Pure read, no side effects.
func (r *Resolver) Resolve(ctx context.Context, accountID uuid.UUID, maxLevels int) ([]ChainEntry, error) {
	if maxLevels <= 0 {
		return nil, nil
	}

	_, next, _, err := r.lookup.GetChainLink(ctx, accountID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{accountID: true}
	chain := make([]ChainEntry, 0, maxLevels)

	for level := 1; level <= maxLevels && next != nil; level++ {
		if seen[*next] {
			log.Warn().
				Str("account_id", accountID.String()).
				Str("cycle_at", next.String()).
				Msg("referral cycle detected, truncating chain")
			break
		}
		seen[*next] = true

		id, parent, currency, err := r.lookup.GetChainLink(ctx, *next)
		if err != nil {
			return nil, err
		}

		chain = append(chain, ChainEntry{
			Level:           level,
			AccountID:       id,
			EarningCurrency: currency,
		})
		next = parent
	}

	return chain, nil
}
