package monetize

import "errors"

var (
	ErrUnitNotFound    = errors.New("monetized unit not found")
	ErrTrackingFailed  = errors.New("event tracking failed")
	ErrInvalidTarget   = errors.New("click target must not shrink")
	ErrUnitNotApproved = errors.New("unit is not pending approval")
)
