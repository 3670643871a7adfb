package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPFetcher pulls rates from a JSON rate API shaped like
// {"base_code":"USD","rates":{"EUR":0.91,...}}. The short client timeout
// keeps a slow rate provider from stalling refreshes.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (string, map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("rate api returned status %d", resp.StatusCode)
	}

	var body struct {
		BaseCode string             `json:"base_code"`
		Rates    map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, err
	}
	if body.BaseCode == "" || len(body.Rates) == 0 {
		return "", nil, fmt.Errorf("rate api returned empty rate table")
	}

	rates := make(map[string]decimal.Decimal, len(body.Rates))
	for cur, rate := range body.Rates {
		rates[cur] = decimal.NewFromFloat(rate)
	}
	return body.BaseCode, rates, nil
}
