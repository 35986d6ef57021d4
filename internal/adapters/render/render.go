// Package render draws assessment plots from already-computed series and
// fit parameters. It never reaches back into the numerical pipeline: every
// function takes plain slices and writes a PNG.
package render

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kselvik/anemos/internal/domain/weibull"
	"github.com/kselvik/anemos/pkg/metrics"
)

// Defaults matching the analyst workflow.
const (
	DefaultBins    = 30
	DefaultSectors = 16

	plotWidth  = 6 * vg.Inch
	plotHeight = 4.5 * vg.Inch
	roseSize   = 5 * vg.Inch
)

// HistogramOptions configures SpeedHistogram. Zero values pick defaults.
type HistogramOptions struct {
	Bins  int
	Title string
}

// SpeedHistogram writes a density-normalized wind speed histogram to path,
// overlaying the fitted Weibull density unless the fit is degenerate.
// NaN speeds are dropped before binning.
func SpeedHistogram(path string, speeds []float64, fit weibull.Params, opts HistogramOptions) error {
	start := time.Now()

	bins := opts.Bins
	if bins <= 0 {
		bins = DefaultBins
	}
	title := opts.Title
	if title == "" {
		title = "Wind speed distribution"
	}

	vals := make(plotter.Values, 0, len(speeds))
	vMax := 0.0
	for _, v := range speeds {
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		if v > vMax {
			vMax = v
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("histogram %s: no finite speed samples", path)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Wind speed [m/s]"
	p.Y.Label.Text = "Probability density"

	hist, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", path, err)
	}
	hist.Normalize(1)
	p.Add(hist)

	if !fit.Degenerate() {
		pdf := plotter.NewFunction(fit.PDF)
		pdf.Samples = 200
		pdf.XMin = 0
		pdf.XMax = vMax
		p.Add(pdf)
		p.Title.Text = fmt.Sprintf("%s (Weibull A=%.2f, k=%.2f)", title, fit.A, fit.K)
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("histogram %s: %w", path, err)
	}
	metrics.RecordPlotRendered("histogram")
	metrics.RecordRenderLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// RoseOptions configures WindRose. Zero values pick defaults.
type RoseOptions struct {
	Sectors int
	Title   string
}

// WindRose writes a polar frequency chart of wind directions to path, with
// 0 degrees (North) at the top and angles increasing clockwise. NaN
// directions are dropped.
func WindRose(path string, dirs []float64, opts RoseOptions) error {
	start := time.Now()

	sectors := opts.Sectors
	if sectors <= 0 {
		sectors = DefaultSectors
	}
	title := opts.Title
	if title == "" {
		title = "Wind rose"
	}

	freqs, err := SectorFrequencies(dirs, sectors)
	if err != nil {
		return fmt.Errorf("wind rose %s: %w", path, err)
	}

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	// Unit circle data coordinates; the rose plotter scales frequencies
	// to the longest sector.
	p.X.Min, p.X.Max = -1.25, 1.25
	p.Y.Min, p.Y.Max = -1.25, 1.25
	p.Add(newRose(freqs))

	if err := p.Save(roseSize, roseSize, path); err != nil {
		return fmt.Errorf("wind rose %s: %w", path, err)
	}
	metrics.RecordPlotRendered("windrose")
	metrics.RecordRenderLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// SectorFrequencies bins directions (degrees, [0, 360)) into equal angular
// sectors and returns each sector's share of the finite samples. Sector 0
// is centered on its half-open range [0, 360/n).
func SectorFrequencies(dirs []float64, sectors int) ([]float64, error) {
	if sectors < 1 {
		return nil, fmt.Errorf("need at least one sector, got %d", sectors)
	}
	counts := make([]float64, sectors)
	total := 0.0
	width := 360.0 / float64(sectors)
	for _, d := range dirs {
		if math.IsNaN(d) {
			continue
		}
		d = math.Mod(math.Mod(d, 360)+360, 360)
		idx := int(d / width)
		if idx >= sectors { // d just below 360 with rounding
			idx = sectors - 1
		}
		counts[idx]++
		total++
	}
	if total == 0 {
		return nil, fmt.Errorf("no finite direction samples")
	}
	for i := range counts {
		counts[i] /= total
	}
	return counts, nil
}
