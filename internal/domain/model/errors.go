package model

import "errors"

// Validation errors for screening jobs.
var (
	ErrMissingJobID  = errors.New("missing job id")
	ErrMissingSiteID = errors.New("missing site id")
	ErrBadCoordinate = errors.New("coordinate out of range")
	ErrBadHubHeight  = errors.New("hub height must be positive")
	ErrMissingCurve  = errors.New("missing power curve name")
	ErrBadYear       = errors.New("year out of range")
)
