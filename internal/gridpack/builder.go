package gridpack

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bitbucket.org/ctessum/sparse"

	"github.com/kselvik/anemos/internal/adapters/gridstore"
	"github.com/kselvik/anemos/internal/domain/types"
)

// Builder accumulates observations from any number of input files and
// assembles them into one dense cube. Add is safe for concurrent use;
// Build must only be called once all adds have finished.
type Builder struct {
	mu  sync.Mutex
	obs []Observation
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends observations to the builder.
func (b *Builder) Add(obs ...Observation) {
	b.mu.Lock()
	b.obs = append(b.obs, obs...)
	b.mu.Unlock()
}

// Len returns the number of accumulated observations.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.obs)
}

// Build assembles the accumulated observations into a grid. The
// observations must cover the full time x lat x lon product; rows that
// repeat a cell overwrite the earlier value. Axes are derived from the
// distinct coordinate values seen across all rows.
func (b *Builder) Build() (*gridstore.Grid, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.obs) == 0 {
		return nil, ErrNoObservations
	}

	latAxis, latIdx := distinctAxis(b.obs, func(o Observation) float64 { return o.Lat })
	lonAxis, lonIdx := distinctAxis(b.obs, func(o Observation) float64 { return o.Lon })
	if len(latAxis) < 2 {
		return nil, fmt.Errorf("%w: %d distinct latitudes", ErrAxisTooSmall, len(latAxis))
	}
	if len(lonAxis) < 2 {
		return nil, fmt.Errorf("%w: %d distinct longitudes", ErrAxisTooSmall, len(lonAxis))
	}

	times, timeIdx := distinctTimes(b.obs)

	nt, ny, nx := len(times), len(latAxis), len(lonAxis)
	g := &gridstore.Grid{
		Times: times,
		Lats:  latAxis,
		Lons:  lonAxis,
		Vars:  make(map[string]*sparse.DenseArray),
	}
	u10n, v10n := types.Height10.UVNames()
	u100n, v100n := types.Height100.UVNames()
	for _, name := range []string{u10n, v10n, u100n, v100n} {
		g.Vars[name] = sparse.ZerosDense(nt, ny, nx)
	}

	filled := make([]bool, nt*ny*nx)
	for _, o := range b.obs {
		t := timeIdx[o.Time.UnixNano()]
		j := latIdx[o.Lat]
		i := lonIdx[o.Lon]
		g.Vars[u10n].Set(o.U10, t, j, i)
		g.Vars[v10n].Set(o.V10, t, j, i)
		g.Vars[u100n].Set(o.U100, t, j, i)
		g.Vars[v100n].Set(o.V100, t, j, i)
		filled[(t*ny+j)*nx+i] = true
	}

	missing := 0
	for _, ok := range filled {
		if !ok {
			missing++
		}
	}
	if missing > 0 {
		return nil, fmt.Errorf("%w: %d of %d cells have no observation",
			ErrSparseCube, missing, len(filled))
	}
	return g, nil
}

// distinctAxis returns the sorted distinct values of one coordinate and
// a value-to-index map over them.
func distinctAxis(obs []Observation, get func(Observation) float64) ([]float64, map[float64]int) {
	seen := make(map[float64]struct{})
	var axis []float64
	for _, o := range obs {
		v := get(o)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			axis = append(axis, v)
		}
	}
	sort.Float64s(axis)
	idx := make(map[float64]int, len(axis))
	for i, v := range axis {
		idx[v] = i
	}
	return axis, idx
}

// distinctTimes returns the sorted distinct timestamps and an index map
// keyed by unix nanoseconds.
func distinctTimes(obs []Observation) ([]time.Time, map[int64]int) {
	seen := make(map[int64]time.Time)
	for _, o := range obs {
		seen[o.Time.UnixNano()] = o.Time.UTC()
	}
	keys := make([]int64, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	times := make([]time.Time, len(keys))
	idx := make(map[int64]int, len(keys))
	for i, k := range keys {
		times[i] = seen[k]
		idx[k] = i
	}
	return times, idx
}
