package referral

import "errors"

var (
	ErrNotFound     = errors.New("referral not found")
	ErrSelfReferral = errors.New("account cannot refer itself")
)
