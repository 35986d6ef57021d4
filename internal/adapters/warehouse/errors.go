package warehouse

import "errors"

// Errors for the warehouse package.
var (
	// ErrNotConnected is returned when the exporter is used after Close or
	// before a successful connection.
	ErrNotConnected = errors.New("warehouse not connected")

	// ErrEmptyBatch is returned when an export is attempted with no rows.
	ErrEmptyBatch = errors.New("empty export batch")
)
