package currency

import "errors"

var (
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrInvalidRate     = errors.New("exchange rate must be positive")
)
