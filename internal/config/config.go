// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GridGlob matches the NetCDF wind grid files to load at startup.
	GridGlob string `koanf:"grid_glob"`

	// CurvesDir holds the power curve CSV files.
	CurvesDir string `koanf:"curves_dir"`

	// ShearAlpha is the power-law exponent used for vertical extrapolation.
	ShearAlpha float64 `koanf:"shear_alpha"`

	// StepHours is the expected sampling interval of the wind grid.
	StepHours float64 `koanf:"step_hours"`

	// WorkerCount sets the number of screening workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory screening job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the job deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTopLimit caps GET /v1/sites/top?limit.
	MaxTopLimit int `koanf:"max_top_limit"`

	// HistogramBins sets the default bin count of speed histogram plots.
	HistogramBins int `koanf:"histogram_bins"`

	// RoseSectors sets the default sector count of wind rose plots.
	RoseSectors int `koanf:"rose_sectors"`

	// ClickHouseAddr enables the warehouse exporter when non-empty.
	ClickHouseAddr string `koanf:"clickhouse_addr"`

	// ClickHouseDatabase is the warehouse database name.
	ClickHouseDatabase string `koanf:"clickhouse_database"`

	// ClickHouseTablePrefix prefixes the warehouse table names.
	ClickHouseTablePrefix string `koanf:"clickhouse_table_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		GridGlob:              "data/*.nc",
		CurvesDir:             "data/curves",
		ShearAlpha:            0.14,
		StepHours:             1.0,
		WorkerCount:           runtime.NumCPU() * 4,
		QueueSize:             100_000,
		DedupeSize:            500_000,
		MaxTopLimit:           100,
		HistogramBins:         30,
		RoseSectors:           16,
		ClickHouseDatabase:    "anemos",
		ClickHouseTablePrefix: "anemos",
	}
}

// Validate checks field ranges that would break the service at runtime.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ShearAlpha <= 0 || c.ShearAlpha >= 1:
		return fmt.Errorf("%w: shear_alpha %g outside (0, 1)", ErrInvalidConfig, c.ShearAlpha)
	case c.StepHours <= 0:
		return fmt.Errorf("%w: step_hours %g must be positive", ErrInvalidConfig, c.StepHours)
	case c.MaxTopLimit < 1:
		return fmt.Errorf("%w: max_top_limit %d must be at least 1", ErrInvalidConfig, c.MaxTopLimit)
	case c.HistogramBins < 1:
		return fmt.Errorf("%w: histogram_bins %d must be at least 1", ErrInvalidConfig, c.HistogramBins)
	case c.RoseSectors < 4:
		return fmt.Errorf("%w: rose_sectors %d must be at least 4", ErrInvalidConfig, c.RoseSectors)
	}
	return nil
}

// WarehouseEnabled reports whether a ClickHouse exporter should be started.
func (c *Config) WarehouseEnabled() bool {
	return c.ClickHouseAddr != ""
}
