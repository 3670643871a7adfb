package account

import "errors"

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyActive = errors.New("account already active")
)
