package referral_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/linkmint/linkmint-api/internal/domain/referral"
)

type fakeLookup struct {
	parents    map[uuid.UUID]*uuid.UUID
	currencies map[uuid.UUID]string
}

func (f *fakeLookup) GetChainLink(ctx context.Context, accountID uuid.UUID) (uuid.UUID, *uuid.UUID, string, error) {
	return accountID, f.parents[accountID], f.currencies[accountID], nil
}

func TestResolveTwoLevels(t *testing.T) {
	activated := uuid.New()
	referrerA := uuid.New()
	referrerB := uuid.New()
	referrerC := uuid.New()

	lookup := &fakeLookup{
		parents: map[uuid.UUID]*uuid.UUID{
			activated: &referrerA,
			referrerA: &referrerB,
			referrerB: &referrerC,
		},
		currencies: map[uuid.UUID]string{
			referrerA: "USD",
			referrerB: "EUR",
		},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), activated, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chain) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(chain))
	}
	if chain[0].Level != 1 || chain[0].AccountID != referrerA || chain[0].EarningCurrency != "USD" {
		t.Fatalf("unexpected level 1 entry: %+v", chain[0])
	}
	if chain[1].Level != 2 || chain[1].AccountID != referrerB || chain[1].EarningCurrency != "EUR" {
		t.Fatalf("unexpected level 2 entry: %+v", chain[1])
	}
}

func TestResolveTruncatedChain(t *testing.T) {
	activated := uuid.New()
	referrerA := uuid.New()

	lookup := &fakeLookup{
		parents: map[uuid.UUID]*uuid.UUID{
			activated: &referrerA,
		},
		currencies: map[uuid.UUID]string{referrerA: "USD"},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), activated, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chain) != 1 {
		t.Fatalf("expected 1 level, got %d", len(chain))
	}
	if chain[0].Level != 1 || chain[0].AccountID != referrerA {
		t.Fatalf("unexpected entry: %+v", chain[0])
	}
}

func TestResolveNoReferrer(t *testing.T) {
	activated := uuid.New()
	lookup := &fakeLookup{
		parents:    map[uuid.UUID]*uuid.UUID{},
		currencies: map[uuid.UUID]string{},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), activated, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("expected empty chain, got %d entries", len(chain))
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	// b -> c -> b is a cycle; the walk must stop, not loop.
	lookup := &fakeLookup{
		parents: map[uuid.UUID]*uuid.UUID{
			a: &b,
			b: &c,
			c: &b,
		},
		currencies: map[uuid.UUID]string{b: "USD", c: "USD"},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), a, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chain) != 2 {
		t.Fatalf("expected 2 entries before cycle truncation, got %d", len(chain))
	}
	if chain[0].AccountID != b || chain[1].AccountID != c {
		t.Fatalf("unexpected chain: %+v", chain)
	}
}

func TestResolveSelfCycleTerminates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	// b refers itself: level 1 pays b, then the walk must stop.
	lookup := &fakeLookup{
		parents: map[uuid.UUID]*uuid.UUID{
			a: &b,
			b: &b,
		},
		currencies: map[uuid.UUID]string{b: "USD"},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), a, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(chain))
	}
}

func TestResolveZeroLevels(t *testing.T) {
	lookup := &fakeLookup{
		parents:    map[uuid.UUID]*uuid.UUID{},
		currencies: map[uuid.UUID]string{},
	}

	chain, err := referral.NewResolver(lookup).Resolve(context.Background(), uuid.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chain != nil {
		t.Fatalf("expected nil chain, got %+v", chain)
	}
}
