package commission

import "errors"

var (
	ErrDuplicateCommission = errors.New("commission already recorded for this event")
	ErrInvalidAmount       = errors.New("commission amount must be positive")
)
