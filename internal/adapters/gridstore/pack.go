package gridstore

import (
	"fmt"
	"os"

	"bitbucket.org/ctessum/cdf"

	"github.com/kselvik/anemos/internal/domain/types"
)

// timeUnits is the encoding Pack writes; readers accept any supported
// CF-style unit.
const timeUnits = "seconds since 1970-01-01 00:00:00"

// Pack writes a grid cube to path as a NetCDF classic file using the
// conventions readGridFile expects. It is the inverse of loading a single
// file and serves the gridpack CLI and test fixtures.
func Pack(path string, g *Grid) error {
	if err := g.validate(); err != nil {
		return fmt.Errorf("pack %s: %w", path, err)
	}

	nt, ny, nx := len(g.Times), len(g.Lats), len(g.Lons)
	h := cdf.NewHeader([]string{dimTime, dimLat, dimLon}, []int{nt, ny, nx})

	h.AddVariable(dimTime, []string{dimTime}, []float64{0})
	h.AddAttribute(dimTime, "units", timeUnits)
	h.AddVariable(dimLat, []string{dimLat}, []float64{0})
	h.AddAttribute(dimLat, "units", "degrees_north")
	h.AddVariable(dimLon, []string{dimLon}, []float64{0})
	h.AddAttribute(dimLon, "units", "degrees_east")
	for _, hgt := range types.SupportedHeights() {
		un, vn := hgt.UVNames()
		h.AddVariable(un, []string{dimTime, dimLat, dimLon}, []float32{0})
		h.AddAttribute(un, "units", "m s-1")
		h.AddVariable(vn, []string{dimTime, dimLat, dimLon}, []float32{0})
		h.AddAttribute(vn, "units", "m s-1")
	}
	h.Define()
	for _, err := range h.Check() {
		if err != nil {
			return fmt.Errorf("pack %s: header: %w", path, err)
		}
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	cf, err := cdf.Create(fh, h)
	if err != nil {
		return fmt.Errorf("pack %s: %w", path, err)
	}

	seconds := make([]float64, nt)
	for i, ts := range g.Times {
		seconds[i] = float64(ts.Unix())
	}
	if err := writeVar(cf, dimTime, []int{0}, []int{nt}, seconds); err != nil {
		return fmt.Errorf("pack %s: %w", path, err)
	}
	if err := writeVar(cf, dimLat, []int{0}, []int{ny}, g.Lats); err != nil {
		return fmt.Errorf("pack %s: %w", path, err)
	}
	if err := writeVar(cf, dimLon, []int{0}, []int{nx}, g.Lons); err != nil {
		return fmt.Errorf("pack %s: %w", path, err)
	}
	for name, arr := range g.Vars {
		buf := make([]float32, len(arr.Elements))
		for i, v := range arr.Elements {
			buf[i] = float32(v)
		}
		if err := writeVar(cf, name, []int{0, 0, 0}, []int{nt, 0, 0}, buf); err != nil {
			return fmt.Errorf("pack %s: %w", path, err)
		}
	}
	return fh.Close()
}

func writeVar(f *cdf.File, name string, begin, end []int, values any) error {
	w := f.Writer(name, begin, end)
	if _, err := w.Write(values); err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	return nil
}
