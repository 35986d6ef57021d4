// Package turbine loads manufacturer power curve tables from CSV files
// and serves them by name.
package turbine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kselvik/anemos/internal/domain/powercurve"
)

// Columns holds explicit header names for a curve file, bypassing
// substring discovery. Empty fields fall back to discovery.
type Columns struct {
	Speed string
	Power string
}

// LoadCurve reads a power curve CSV. The file needs a header row; the
// speed column is found by the case-insensitive substring "wind speed",
// the power column by "power" (excluding the speed column). Two or more
// candidates for either role is an error naming all of them; ambiguity
// is never resolved by first occurrence. The curve name is the file stem.
func LoadCurve(path string, cols Columns) (*powercurve.Curve, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	c, err := parseCurve(fh, name, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func parseCurve(r io.Reader, name string, cols Columns) (*powercurve.Curve, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", powercurve.ErrMalformedCurve, err)
	}
	speedIdx, powerIdx, err := resolveColumns(header, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", powercurve.ErrMalformedCurve, err)
	}

	var speeds, powers []float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", powercurve.ErrMalformedCurve, line, err)
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(rec[speedIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad speed %q", powercurve.ErrMalformedCurve, line, rec[speedIdx])
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(rec[powerIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad power %q", powercurve.ErrMalformedCurve, line, rec[powerIdx])
		}
		speeds = append(speeds, s)
		powers = append(powers, p)
	}
	return powercurve.New(name, speeds, powers)
}

// resolveColumns maps header names to the speed and power column indices.
// Explicit names win over substring discovery for their role.
func resolveColumns(header []string, cols Columns) (speedIdx, powerIdx int, err error) {
	speedIdx, err = findColumn(header, cols.Speed, "wind speed", -1, ErrNoSpeedColumn)
	if err != nil {
		return 0, 0, err
	}
	powerIdx, err = findColumn(header, cols.Power, "power", speedIdx, ErrNoPowerColumn)
	if err != nil {
		return 0, 0, err
	}
	return speedIdx, powerIdx, nil
}

func findColumn(header []string, explicit, substr string, exclude int, missing error) (int, error) {
	if explicit != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), explicit) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: no column named %q in %v", missing, explicit, header)
	}

	var hits []int
	for i, h := range header {
		if i == exclude {
			continue
		}
		if strings.Contains(strings.ToLower(h), substr) {
			hits = append(hits, i)
		}
	}
	switch len(hits) {
	case 0:
		return 0, fmt.Errorf("%w: no header contains %q in %v", missing, substr, header)
	case 1:
		return hits[0], nil
	default:
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = header[h]
		}
		return 0, fmt.Errorf("%w: %q matches columns %v", ErrAmbiguousColumn, substr, names)
	}
}
