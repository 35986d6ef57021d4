package energy

import "errors"

// ErrStepMismatch indicates that the observed spacing of a time series
// disagrees with the configured step duration.
var ErrStepMismatch = errors.New("time step mismatch")
