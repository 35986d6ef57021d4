package gridstore

import "github.com/kselvik/anemos/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used during loading and sampling.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPaths sets explicit grid file paths to load, in load order. Later
// files win on duplicate timestamps.
func WithPaths(paths ...string) Option {
	return func(s *Store) {
		s.paths = append(s.paths, paths...)
	}
}

// WithGlob sets a filesystem glob resolved (sorted) to grid file paths at
// load time, after any explicit paths.
func WithGlob(pattern string) Option {
	return func(s *Store) {
		s.glob = pattern
	}
}
