package gridstore

import (
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/ctessum/cdf"
	"bitbucket.org/ctessum/sparse"

	"github.com/kselvik/anemos/internal/domain/types"
)

// Grid file conventions: dimensions time/latitude/longitude (fixed
// length), float64 coordinate variables named after their dimensions, a
// "units" attribute on time of the form "<unit> since <reference>", and
// one float32 (time, latitude, longitude) variable pair per supported
// height (u10/v10, u100/v100).
const (
	dimTime = "time"
	dimLat  = "latitude"
	dimLon  = "longitude"
)

// readGridFile reads one NetCDF classic grid file into memory. All
// structural requirements are checked here so that queries never discover
// a malformed file.
func readGridFile(path string) (*Grid, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	cf, err := cdf.Open(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	lats, err := readFloat64Var(cf, dimLat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lons, err := readFloat64Var(cf, dimLon)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rawTimes, err := readFloat64Var(cf, dimTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	unitAttr, ok := cf.Header.GetAttribute(dimTime, "units").(string)
	if !ok || unitAttr == "" {
		return nil, fmt.Errorf("%s: time variable has no units attribute", path)
	}
	times, err := decodeTimes(rawTimes, unitAttr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	g := &Grid{
		Times: times,
		Lats:  lats,
		Lons:  lons,
		Vars:  make(map[string]*sparse.DenseArray),
	}
	for _, h := range types.SupportedHeights() {
		un, vn := h.UVNames()
		for _, name := range []string{un, vn} {
			arr, err := readComponentVar(cf, name, len(times), len(lats), len(lons))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			g.Vars[name] = arr
		}
	}
	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// readFloat64Var reads a 1-D float64 coordinate variable in full.
func readFloat64Var(f *cdf.File, name string) ([]float64, error) {
	if !hasVariable(f, name) {
		return nil, fmt.Errorf("coordinate variable %q missing", name)
	}
	lens := f.Header.Lengths(name)
	if len(lens) != 1 || lens[0] == 0 {
		return nil, fmt.Errorf("coordinate variable %q must be 1-D fixed length, got dims %v", name, lens)
	}
	buf := make([]float64, lens[0])
	r := f.Reader(name, []int{0}, []int{lens[0]})
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return buf, nil
}

// readComponentVar reads one float32 (time, lat, lon) field in full and
// widens it to a dense float64 array.
func readComponentVar(f *cdf.File, name string, nt, ny, nx int) (*sparse.DenseArray, error) {
	if !hasVariable(f, name) {
		return nil, fmt.Errorf("%w: component variable %q missing", ErrUnknownHeight, name)
	}
	lens := f.Header.Lengths(name)
	if len(lens) != 3 || lens[0] != nt || lens[1] != ny || lens[2] != nx {
		return nil, fmt.Errorf("variable %q has dims %v, want [%d %d %d]", name, lens, nt, ny, nx)
	}
	buf := make([]float32, nt*ny*nx)
	r := f.Reader(name, []int{0, 0, 0}, []int{nt, 0, 0})
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	arr := sparse.ZerosDense(nt, ny, nx)
	for i, v := range buf {
		arr.Elements[i] = float64(v)
	}
	return arr, nil
}

func hasVariable(f *cdf.File, name string) bool {
	for _, v := range f.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// decodeTimes converts raw offsets with a CF-style units attribute
// ("hours since 1990-01-01 00:00:00") to UTC timestamps. Supported units
// are seconds, minutes, hours and days.
func decodeTimes(raw []float64, units string) ([]time.Time, error) {
	unit, ref, found := strings.Cut(units, " since ")
	if !found {
		return nil, fmt.Errorf("time units %q: want \"<unit> since <reference>\"", units)
	}

	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "seconds":
		step = time.Second
	case "minutes":
		step = time.Minute
	case "hours":
		step = time.Hour
	case "days":
		step = 24 * time.Hour
	default:
		return nil, fmt.Errorf("time units %q: unsupported unit %q", units, unit)
	}

	ref = strings.TrimSpace(ref)
	var base time.Time
	var err error
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		base, err = time.Parse(layout, ref)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("time units %q: cannot parse reference %q", units, ref)
	}

	out := make([]time.Time, len(raw))
	for i, v := range raw {
		out[i] = base.Add(time.Duration(v * float64(step))).UTC()
	}
	return out, nil
}
