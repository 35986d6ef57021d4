package gridstore

import (
	"fmt"
	"sort"
	"time"

	"bitbucket.org/ctessum/sparse"

	"github.com/kselvik/anemos/internal/domain/types"
)

// Grid is an in-memory cube of wind component fields on a regular
// latitude/longitude grid. Vars holds one dense array per component
// variable (u10, v10, u100, v100), each with shape (time, lat, lon).
// A Grid is read-only once built.
type Grid struct {
	Times []time.Time
	Lats  []float64
	Lons  []float64
	Vars  map[string]*sparse.DenseArray
}

// validate checks the structural invariants a freshly read or merged grid
// must hold: ascending axes, ascending deduplicated times, one variable
// pair per supported height, and matching array shapes.
func (g *Grid) validate() error {
	if len(g.Times) == 0 {
		return fmt.Errorf("grid has empty time axis")
	}
	if len(g.Lats) < 2 || len(g.Lons) < 2 {
		return fmt.Errorf("grid needs at least 2 points per spatial axis, got %d lat x %d lon",
			len(g.Lats), len(g.Lons))
	}
	if !sort.Float64sAreSorted(g.Lats) {
		return fmt.Errorf("latitude axis not ascending")
	}
	if !sort.Float64sAreSorted(g.Lons) {
		return fmt.Errorf("longitude axis not ascending")
	}
	for i := 1; i < len(g.Times); i++ {
		if !g.Times[i].After(g.Times[i-1]) {
			return fmt.Errorf("time axis not strictly ascending at step %d (%v)", i, g.Times[i])
		}
	}
	for _, h := range types.SupportedHeights() {
		un, vn := h.UVNames()
		for _, name := range []string{un, vn} {
			arr, ok := g.Vars[name]
			if !ok {
				return fmt.Errorf("variable %q missing for height %s", name, h)
			}
			if len(arr.Shape) != 3 ||
				arr.Shape[0] != len(g.Times) ||
				arr.Shape[1] != len(g.Lats) ||
				arr.Shape[2] != len(g.Lons) {
				return fmt.Errorf("variable %q has shape %v, want [%d %d %d]",
					name, arr.Shape, len(g.Times), len(g.Lats), len(g.Lons))
			}
		}
	}
	return nil
}

// timeWindow returns the index range [lo, hi) covering the inclusive
// calendar window [fromYear-01-01 00:00, toYear-12-31 23:59:59] UTC.
func (g *Grid) timeWindow(fromYear, toYear int) (lo, hi int) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	lo = sort.Search(len(g.Times), func(i int) bool { return !g.Times[i].Before(start) })
	hi = sort.Search(len(g.Times), func(i int) bool { return !g.Times[i].Before(end) })
	return lo, hi
}

// cellWeights holds precomputed bilinear interpolation indices and weights
// for one (lat, lon) query point. The same weights apply to every time
// step and every variable on the grid.
type cellWeights struct {
	j0, j1 int // bracketing latitude indices
	i0, i1 int // bracketing longitude indices
	wy, wx float64
}

// locate finds the grid cell containing (lat, lon) and the interpolation
// weights within it. Points outside the axes' extent yield ErrOutsideGrid.
func (g *Grid) locate(lat, lon float64) (cellWeights, error) {
	var cw cellWeights
	j0, wy, err := bracket(g.Lats, lat)
	if err != nil {
		return cw, fmt.Errorf("%w (%w): lat %g not in [%g, %g]",
			ErrOutsideGrid, ErrDataUnavailable, lat, g.Lats[0], g.Lats[len(g.Lats)-1])
	}
	i0, wx, err := bracket(g.Lons, lon)
	if err != nil {
		return cw, fmt.Errorf("%w (%w): lon %g not in [%g, %g]",
			ErrOutsideGrid, ErrDataUnavailable, lon, g.Lons[0], g.Lons[len(g.Lons)-1])
	}
	cw = cellWeights{j0: j0, j1: j0 + 1, i0: i0, i1: i0 + 1, wy: wy, wx: wx}
	return cw, nil
}

// bracket finds k such that axis[k] <= x <= axis[k+1] and the fractional
// position of x within that interval. The final axis point brackets to the
// last interval with weight 1.
func bracket(axis []float64, x float64) (k int, w float64, err error) {
	n := len(axis)
	if x < axis[0] || x > axis[n-1] {
		return 0, 0, ErrOutsideGrid
	}
	if x == axis[n-1] {
		return n - 2, 1, nil
	}
	k = sort.SearchFloat64s(axis, x)
	if k < n && axis[k] == x {
		return k, 0, nil
	}
	k--
	w = (x - axis[k]) / (axis[k+1] - axis[k])
	return k, w, nil
}

// interp evaluates one variable at one time index with bilinear weights.
func (g *Grid) interp(arr *sparse.DenseArray, t int, cw cellWeights) float64 {
	v00 := arr.Get(t, cw.j0, cw.i0)
	v01 := arr.Get(t, cw.j0, cw.i1)
	v10 := arr.Get(t, cw.j1, cw.i0)
	v11 := arr.Get(t, cw.j1, cw.i1)
	lo := v00*(1-cw.wx) + v01*cw.wx
	hi := v10*(1-cw.wx) + v11*cw.wx
	return lo*(1-cw.wy) + hi*cw.wy
}

// merge concatenates grids along the time axis, sorts ascending, and
// drops duplicate timestamps keeping the later-loaded grid's field.
// All grids must share identical spatial axes.
func merge(grids []*Grid) (*Grid, error) {
	if len(grids) == 1 {
		return grids[0], nil
	}
	first := grids[0]
	for i, g := range grids[1:] {
		if !equalAxis(first.Lats, g.Lats) || !equalAxis(first.Lons, g.Lons) {
			return nil, fmt.Errorf("grid file %d has different spatial axes than file 0", i+1)
		}
	}

	// Later grids overwrite earlier ones on exact timestamp collisions.
	type slot struct {
		grid *Grid
		t    int
	}
	byTime := make(map[int64]slot)
	for _, g := range grids {
		for t, ts := range g.Times {
			byTime[ts.UnixNano()] = slot{grid: g, t: t}
		}
	}
	keys := make([]int64, 0, len(byTime))
	for k := range byTime {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	nt, ny, nx := len(keys), len(first.Lats), len(first.Lons)
	out := &Grid{
		Times: make([]time.Time, nt),
		Lats:  first.Lats,
		Lons:  first.Lons,
		Vars:  make(map[string]*sparse.DenseArray),
	}
	for name := range first.Vars {
		out.Vars[name] = sparse.ZerosDense(nt, ny, nx)
	}
	plane := ny * nx
	for t, k := range keys {
		s := byTime[k]
		out.Times[t] = time.Unix(0, k).UTC()
		for name, dst := range out.Vars {
			src, ok := s.grid.Vars[name]
			if !ok {
				return nil, fmt.Errorf("variable %q missing in one of the merged grids", name)
			}
			copy(dst.Elements[t*plane:(t+1)*plane], src.Elements[s.t*plane:(s.t+1)*plane])
		}
	}
	return out, nil
}

func equalAxis(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
