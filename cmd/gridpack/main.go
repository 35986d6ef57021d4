// gridpack converts tabular wind component observations into the NetCDF
// cubes the service loads at startup. Inputs may be CSV (plain, .gz or
// .zst compressed) or Parquet files; each row carries a timestamp, a grid
// node position and the u/v components at 10m and 100m. All inputs are
// merged into one cube, which must cover the full time x lat x lon
// product.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kselvik/anemos/internal/adapters/gridstore"
	"github.com/kselvik/anemos/internal/gridpack"
	"github.com/kselvik/anemos/pkg/logger"
)

func main() {
	var (
		out     = flag.String("out", "", "Output NetCDF file (required)")
		workers = flag.Int("workers", runtime.NumCPU(), "Number of parallel file readers")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		return
	}
	if *out == "" || flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *out, *workers, flag.Args()); err != nil {
		logger.Get().Error(ctx, "gridpack failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, out string, workers int, inputs []string) error {
	log := logger.Get()
	start := time.Now()

	files, err := collectInputs(ctx, inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported input files under %d path(s)", len(inputs))
	}
	log.Info(ctx, "packing observations",
		logger.Int("files", len(files)),
		logger.Int("workers", workers),
		logger.String("out", out))

	builder := gridpack.NewBuilder()
	var rows, failed atomic.Int64

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, path := range files {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			obs, err := gridpack.ReadFile(path)
			if err != nil {
				failed.Add(1)
				log.Error(ctx, "read failed",
					logger.String("file", filepath.Base(path)),
					logger.Error(err))
				return
			}
			builder.Add(obs...)
			rows.Add(int64(len(obs)))
			log.Info(ctx, "file read",
				logger.String("file", filepath.Base(path)),
				logger.Int("rows", len(obs)))
		}(path)
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d input files failed to read", n, len(files))
	}

	grid, err := builder.Build()
	if err != nil {
		return fmt.Errorf("assemble cube: %w", err)
	}
	if err := gridstore.Pack(out, grid); err != nil {
		return err
	}

	elapsed := time.Since(start)
	log.Info(ctx, "cube written",
		logger.String("out", out),
		logger.Int("rows", int(rows.Load())),
		logger.Int("steps", len(grid.Times)),
		logger.Int("lats", len(grid.Lats)),
		logger.Int("lons", len(grid.Lons)),
		logger.Duration("elapsed", elapsed),
		logger.Float64("rowsPerSecond", float64(rows.Load())/elapsed.Seconds()))
	return nil
}

// collectInputs expands the positional arguments into a sorted list of
// supported files. Directories are walked recursively.
func collectInputs(ctx context.Context, inputs []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", input, err)
		}
		if !info.IsDir() {
			if !gridpack.SupportedInput(input) {
				return nil, fmt.Errorf("unsupported input file %s", input)
			}
			files = append(files, input)
			continue
		}
		err = filepath.Walk(input, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !info.IsDir() && gridpack.SupportedInput(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `gridpack - pack wind observations into a NetCDF cube

Usage: %s -out cube.nc [options] <file|dir>...

Inputs are CSV files with a header row
(time,lat,lon,u10,v10,u100,v100), optionally gzip (.csv.gz) or zstd
(.csv.zst) compressed, or Parquet files with the same columns and unix
epoch second timestamps. Directories are walked recursively.

The merged observations must cover every combination of timestamp and
grid node; the cube needs at least two distinct latitudes and
longitudes.

Options:
`, os.Args[0])
	flag.PrintDefaults()
}
