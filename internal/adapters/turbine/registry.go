package turbine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/kselvik/anemos/internal/domain/powercurve"
	"github.com/kselvik/anemos/pkg/logger"
)

// Registry holds power curves loaded from a directory, keyed by file
// stem. Loading is eager so malformed curve files fail at startup, never
// during an AEP computation. Read-only after Load.
type Registry struct {
	log    logger.Logger
	dir    string
	curves map[string]*powercurve.Curve
}

// NewRegistry creates a Registry for *.csv files under dir.
func NewRegistry(dir string) *Registry {
	return &Registry{
		log:    logger.Named("turbine"),
		dir:    dir,
		curves: make(map[string]*powercurve.Curve),
	}
}

// Load reads every *.csv file under the registry directory. Any malformed
// file aborts the load.
func (r *Registry) Load(ctx context.Context) error {
	paths, err := filepath.Glob(filepath.Join(r.dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("scanning curve dir %q: %w", r.dir, err)
	}
	sort.Strings(paths)
	for _, p := range paths {
		c, err := LoadCurve(p, Columns{})
		if err != nil {
			return err
		}
		r.curves[c.Name()] = c
		r.log.Info(ctx, "power curve loaded", logger.String("curve", c.Name()),
			logger.Float64("max_kw", c.MaxPower()))
	}
	return nil
}

// Curve returns a loaded curve by name, or ErrUnknownCurve.
func (r *Registry) Curve(name string) (*powercurve.Curve, error) {
	c, ok := r.curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownCurve, name, r.Names())
	}
	return c, nil
}

// Names lists the loaded curve names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.curves))
	for n := range r.curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded curves.
func (r *Registry) Count() int { return len(r.curves) }
