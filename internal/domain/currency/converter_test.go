package currency_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/linkmint/linkmint-api/internal/domain/currency"
)

type fakeFetcher struct {
	base  string
	rates map[string]decimal.Decimal
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (string, map[string]decimal.Decimal, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.base, f.rates, nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestConvertIdentity(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")

	got, err := c.Convert(mustDecimal(t, "1500"), "USD", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustDecimal(t, "1500")) {
		t.Fatalf("expected 1500, got %s", got)
	}
}

func TestConvertDirectRate(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")
	if err := c.SetRate("USD", "EUR", mustDecimal(t, "0.9")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Convert(mustDecimal(t, "1500"), "USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustDecimal(t, "1350")) {
		t.Fatalf("expected 1350, got %s", got)
	}
}

func TestConvertCrossRate(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")
	c.SetRate("USD", "EUR", mustDecimal(t, "0.8"))
	c.SetRate("USD", "GBP", mustDecimal(t, "0.4"))

	// EUR -> GBP through USD: 0.4 / 0.8 = 0.5
	got, err := c.Convert(mustDecimal(t, "100"), "EUR", "GBP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustDecimal(t, "50")) {
		t.Fatalf("expected 50, got %s", got)
	}
}

func TestConvertMissingRate(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")

	_, err := c.Convert(mustDecimal(t, "10"), "USD", "JPY")
	if !errors.Is(err, currency.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.00005", "1.0001"},
		{"1.00004", "1"},
		{"0.12345", "0.1235"},
		{"1500", "1500"},
	}
	for _, tc := range cases {
		got := currency.Round(mustDecimal(t, tc.in))
		if !got.Equal(mustDecimal(t, tc.want)) {
			t.Errorf("Round(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRoundTripWithinPrecision(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")
	c.SetRate("USD", "EUR", mustDecimal(t, "0.913"))
	c.SetRate("EUR", "USD", mustDecimal(t, "1.0952902519"))

	amount := mustDecimal(t, "1500")
	eur, err := c.Convert(amount, "USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := c.Convert(eur, "EUR", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := back.Sub(amount).Abs()
	if diff.GreaterThan(mustDecimal(t, "0.0001")) {
		t.Fatalf("round trip drifted by %s", diff)
	}
}

func TestRefreshFailureServesCachedRate(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("rate api down")}
	c := currency.NewConverter(nil, fetcher, "USD")
	c.SetRate("USD", "EUR", mustDecimal(t, "0.9"))

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	// Stale rate still serves.
	got, err := c.Convert(mustDecimal(t, "100"), "USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustDecimal(t, "90")) {
		t.Fatalf("expected 90, got %s", got)
	}
}

func TestRefreshSwapsRates(t *testing.T) {
	fetcher := &fakeFetcher{
		base:  "USD",
		rates: map[string]decimal.Decimal{"EUR": mustDecimal(t, "0.95")},
	}
	c := currency.NewConverter(nil, fetcher, "USD")
	c.SetRate("USD", "EUR", mustDecimal(t, "0.9"))

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Convert(mustDecimal(t, "100"), "USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mustDecimal(t, "95")) {
		t.Fatalf("expected 95, got %s", got)
	}
}

func TestSetRateRejectsNonPositive(t *testing.T) {
	c := currency.NewConverter(nil, &fakeFetcher{}, "USD")
	if err := c.SetRate("USD", "EUR", decimal.Zero); !errors.Is(err, currency.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}
