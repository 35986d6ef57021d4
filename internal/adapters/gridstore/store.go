// Package gridstore loads gridded reanalysis wind files and answers point
// time series queries against the merged, in-memory dataset.
package gridstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/wind"
	"github.com/kselvik/anemos/pkg/logger"
	"github.com/kselvik/anemos/pkg/metrics"
)

// Store owns the merged grid dataset. Load is eager and idempotent; the
// grid is read-only afterwards, so queries need no locking beyond the
// load guard.
type Store struct {
	log   logger.Logger
	paths []string
	glob  string

	loadOnce sync.Once
	loadErr  error
	grid     *Grid
}

// New creates a Store. Nothing is read until Load.
func New(opts ...Option) *Store {
	s := &Store{log: logger.Named("gridstore")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and merges all configured grid files. It is safe to call
// concurrently and repeatedly: the first call does the work and every
// call returns that first outcome.
func (s *Store) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		start := time.Now()
		s.grid, s.loadErr = s.load(ctx)
		if s.loadErr == nil {
			metrics.RecordGridLoadDuration(float64(time.Since(start).Milliseconds()))
			metrics.UpdateGridTimeSteps(len(s.grid.Times))
			s.log.Info(ctx, "grid loaded",
				logger.Int("steps", len(s.grid.Times)),
				logger.Int("lats", len(s.grid.Lats)),
				logger.Int("lons", len(s.grid.Lons)),
				logger.Duration("took", time.Since(start)))
		}
	})
	return s.loadErr
}

func (s *Store) load(ctx context.Context) (*Grid, error) {
	paths := append([]string(nil), s.paths...)
	if s.glob != "" {
		matched, err := filepath.Glob(s.glob)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", s.glob, err)
		}
		sort.Strings(matched)
		paths = append(paths, matched...)
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	grids := make([]*Grid, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := readGridFile(p)
		if err != nil {
			return nil, err
		}
		s.log.Debug(ctx, "grid file read", logger.String("path", p),
			logger.Int("steps", len(g.Times)))
		grids = append(grids, g)
	}
	metrics.UpdateGridFilesLoaded(len(paths))

	merged, err := merge(grids)
	if err != nil {
		return nil, err
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Bounds returns the loaded dataset's spatial extent, time range and step
// count.
func (s *Store) Bounds() (types.GridBounds, error) {
	g := s.grid
	if g == nil {
		return types.GridBounds{}, ErrNotLoaded
	}
	return types.GridBounds{
		LatMin:    g.Lats[0],
		LatMax:    g.Lats[len(g.Lats)-1],
		LonMin:    g.Lons[0],
		LonMax:    g.Lons[len(g.Lons)-1],
		TimeStart: g.Times[0],
		TimeEnd:   g.Times[len(g.Times)-1],
		Steps:     len(g.Times),
		Heights:   types.SupportedHeights(),
	}, nil
}

// SampleUV bilinearly interpolates the u and v components at (lat, lon)
// for every time step in the inclusive calendar window [fromYear, toYear].
// The returned slices are aligned and ascending in time.
func (s *Store) SampleUV(ctx context.Context, lat, lon float64, height types.Height, fromYear, toYear int) ([]time.Time, []float64, []float64, error) {
	start := time.Now()
	times, us, vs, err := s.sampleUV(ctx, lat, lon, height, fromYear, toYear)
	if err != nil {
		metrics.RecordSampleError()
		return nil, nil, nil, err
	}
	metrics.RecordSampleQuery()
	metrics.RecordSampleLatency(float64(time.Since(start).Milliseconds()))
	return times, us, vs, nil
}

func (s *Store) sampleUV(ctx context.Context, lat, lon float64, height types.Height, fromYear, toYear int) ([]time.Time, []float64, []float64, error) {
	g := s.grid
	if g == nil {
		return nil, nil, nil, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	if !height.Valid() {
		return nil, nil, nil, fmt.Errorf("%w (%w): %s not in %v",
			ErrUnknownHeight, ErrDataUnavailable, height, types.SupportedHeights())
	}
	cw, err := g.locate(lat, lon)
	if err != nil {
		return nil, nil, nil, err
	}
	lo, hi := g.timeWindow(fromYear, toYear)
	if lo >= hi {
		return nil, nil, nil, fmt.Errorf("%w (%w): years %d-%d, dataset %v to %v",
			ErrEmptyWindow, ErrDataUnavailable, fromYear, toYear, g.Times[0], g.Times[len(g.Times)-1])
	}

	un, vn := height.UVNames()
	uArr, vArr := g.Vars[un], g.Vars[vn]
	n := hi - lo
	times := make([]time.Time, n)
	us := make([]float64, n)
	vs := make([]float64, n)
	for i := 0; i < n; i++ {
		t := lo + i
		times[i] = g.Times[t]
		us[i] = g.interp(uArr, t, cw)
		vs[i] = g.interp(vArr, t, cw)
	}
	return times, us, vs, nil
}

// Sample returns the speed/direction time series at the requested point
// and height, converted with the meteorological convention.
func (s *Store) Sample(ctx context.Context, req types.SampleRequest) (types.Series, error) {
	times, us, vs, err := s.SampleUV(ctx, req.Lat, req.Lon, req.Height, req.FromYear, req.ToYear)
	if err != nil {
		return types.Series{}, err
	}
	speeds, dirs := wind.SpeedDirSeries(us, vs)
	return types.Series{Times: times, Speed: speeds, Dir: dirs}, nil
}
