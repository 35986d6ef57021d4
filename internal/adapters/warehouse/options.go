package warehouse

import (
	"github.com/kselvik/anemos/pkg/logger"
)

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithDatabase sets the ClickHouse database name.
func WithDatabase(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.database = name
		}
	}
}

// WithTablePrefix sets the prefix of the results table name.
func WithTablePrefix(prefix string) Option {
	return func(e *Exporter) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(e *Exporter) {
		if id != "" {
			e.runID = id
		}
	}
}

// WithLogger sets a custom logger for the exporter.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}
