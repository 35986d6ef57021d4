package gridstore

import "errors"

// Sentinel kinds for grid data errors. ErrOutsideGrid, ErrEmptyWindow and
// ErrUnknownHeight all wrap ErrDataUnavailable so callers can match the
// broad class or the specific cause.
var (
	ErrDataUnavailable = errors.New("grid data unavailable")

	ErrOutsideGrid   = errors.New("coordinates outside grid extent")
	ErrEmptyWindow   = errors.New("no time steps in requested window")
	ErrUnknownHeight = errors.New("height not present in grid")

	ErrNotLoaded = errors.New("grid not loaded")
	ErrNoFiles   = errors.New("no grid files to load")
)
