// site-report runs the assessment engine directly against local data,
// without a running service. For one site it prints per-height wind
// statistics, renders a speed histogram and a wind rose, and, when a
// power curve is given, estimates annual energy production at the hub
// height.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kselvik/anemos/internal/adapters/gridstore"
	"github.com/kselvik/anemos/internal/adapters/render"
	"github.com/kselvik/anemos/internal/adapters/turbine"
	"github.com/kselvik/anemos/internal/domain/energy"
	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/weibull"
	"github.com/kselvik/anemos/internal/domain/wind"
	"github.com/kselvik/anemos/pkg/logger"
)

const (
	defaultBins    = 30
	defaultSectors = 16
	dirPermission  = 0750
)

type options struct {
	gridGlob  string
	curvesDir string
	lat, lon  float64
	hubHeight float64
	curve     string
	fromYear  int
	toYear    int
	alpha     float64
	stepHours float64
	bins      int
	sectors   int
	outDir    string
}

func main() {
	var opts options
	flag.StringVar(&opts.gridGlob, "grid", "data/*.nc", "Glob matching NetCDF wind grid files")
	flag.StringVar(&opts.curvesDir, "curves", "data/curves", "Directory of power curve CSV files")
	flag.Float64Var(&opts.lat, "lat", 0, "Site latitude in degrees (required)")
	flag.Float64Var(&opts.lon, "lon", 0, "Site longitude in degrees (required)")
	flag.Float64Var(&opts.hubHeight, "hub", 100, "Hub height in meters")
	flag.StringVar(&opts.curve, "curve", "", "Power curve name; empty skips the energy estimate")
	flag.IntVar(&opts.fromYear, "from", 0, "First year of the window (default: dataset start)")
	flag.IntVar(&opts.toYear, "to", 0, "Last year of the window (default: dataset end)")
	flag.Float64Var(&opts.alpha, "alpha", wind.DefaultAlpha, "Power-law shear exponent")
	flag.Float64Var(&opts.stepHours, "step", 1.0, "Expected sampling interval in hours")
	flag.IntVar(&opts.bins, "bins", defaultBins, "Histogram bin count")
	flag.IntVar(&opts.sectors, "sectors", defaultSectors, "Wind rose sector count")
	flag.StringVar(&opts.outDir, "outdir", "report", "Directory for rendered plots")
	flag.Parse()

	if !flagSet("lat") || !flagSet("lon") {
		fmt.Fprintln(os.Stderr, "site-report: -lat and -lon are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if err := run(ctx, opts); err != nil {
		logger.Get().Error(ctx, "site report failed", logger.Error(err))
		os.Exit(1)
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(ctx context.Context, opts options) error {
	log := logger.Get()
	start := time.Now()

	store := gridstore.New(gridstore.WithGlob(opts.gridGlob), gridstore.WithLogger(log))
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load grid: %w", err)
	}
	bounds, err := store.Bounds()
	if err != nil {
		return err
	}
	if opts.fromYear == 0 {
		opts.fromYear = bounds.TimeStart.UTC().Year()
	}
	if opts.toYear == 0 {
		opts.toYear = bounds.TimeEnd.UTC().Year()
	}
	log.Info(ctx, "dataset loaded",
		logger.Int("steps", bounds.Steps),
		logger.Int("fromYear", opts.fromYear),
		logger.Int("toYear", opts.toYear))

	if err := os.MkdirAll(opts.outDir, dirPermission); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Per-height wind climate summary.
	for _, h := range types.SupportedHeights() {
		series, err := store.Sample(ctx, types.SampleRequest{
			Lat: opts.lat, Lon: opts.lon,
			Height:   h,
			FromYear: opts.fromYear, ToYear: opts.toYear,
		})
		if err != nil {
			return fmt.Errorf("sample at %s: %w", h, err)
		}
		fit := weibull.Fit(series.Speed)
		fields := []logger.Field{
			logger.String("height", h.String()),
			logger.Int("samples", series.Len()),
			logger.Float64("meanSpeed", mean(series.Speed)),
		}
		if !fit.Degenerate() {
			fields = append(fields,
				logger.Float64("weibullA", fit.A),
				logger.Float64("weibullK", fit.K))
		}
		log.Info(ctx, "wind climate", fields...)
	}

	// Plots at the extrapolation reference height for the hub.
	refHeight := energy.RefHeight(opts.hubHeight)
	series, err := store.Sample(ctx, types.SampleRequest{
		Lat: opts.lat, Lon: opts.lon,
		Height:   refHeight,
		FromYear: opts.fromYear, ToYear: opts.toYear,
	})
	if err != nil {
		return fmt.Errorf("sample at reference height: %w", err)
	}
	fit := weibull.Fit(series.Speed)

	histPath := filepath.Join(opts.outDir, "histogram.png")
	title := fmt.Sprintf("Wind speed at %s (%.3f, %.3f)", refHeight, opts.lat, opts.lon)
	if err := render.SpeedHistogram(histPath, series.Speed, fit, render.HistogramOptions{
		Bins:  opts.bins,
		Title: title,
	}); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	rosePath := filepath.Join(opts.outDir, "windrose.png")
	if err := render.WindRose(rosePath, series.Dir, render.RoseOptions{
		Sectors: opts.sectors,
		Title:   fmt.Sprintf("Wind rose at %s (%.3f, %.3f)", refHeight, opts.lat, opts.lon),
	}); err != nil {
		return fmt.Errorf("render wind rose: %w", err)
	}
	log.Info(ctx, "plots rendered",
		logger.String("histogram", histPath),
		logger.String("windrose", rosePath))

	if opts.curve == "" {
		log.Info(ctx, "no power curve given, skipping energy estimate",
			logger.Duration("elapsed", time.Since(start)))
		return nil
	}

	registry := turbine.NewRegistry(opts.curvesDir)
	if err := registry.Load(ctx); err != nil {
		return fmt.Errorf("load power curves: %w", err)
	}
	curve, err := registry.Curve(opts.curve)
	if err != nil {
		return err
	}

	if err := energy.ValidateStep(series.Times, opts.stepHours); err != nil {
		return err
	}
	hubSpeeds := series.Speed
	extrapolated := opts.hubHeight != refHeight.Meters()
	if extrapolated {
		hubSpeeds = wind.PowerLawSeries(series.Speed, refHeight.Meters(), opts.hubHeight, opts.alpha)
	}
	aep := energy.AEP(curve.PowerSeries(hubSpeeds), opts.stepHours)

	log.Info(ctx, "energy estimate",
		logger.String("curve", curve.Name()),
		logger.Float64("hubHeight", opts.hubHeight),
		logger.String("refHeight", refHeight.String()),
		logger.Any("extrapolated", extrapolated),
		logger.Float64("aepMWh", aep),
		logger.Int("samples", series.Len()),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
