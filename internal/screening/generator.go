package screening

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/kselvik/anemos/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	jobIDDivisor       = 10000
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// loadSites reads candidate sites from a CSV file.
// Columns: site_id, lat, lon, hub_height_m.
func loadSites(ctx context.Context, path string) ([]Site, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sites file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close sites file", logger.Error(err))
		}
	}()

	var sites []Site
	if err := gocsv.UnmarshalFile(file, &sites); err != nil {
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("sites file %s contains no rows", path)
	}

	for i, s := range sites {
		if s.SiteID == "" {
			return nil, fmt.Errorf("sites file row %d: missing site_id", i+1)
		}
	}

	logger.Get().Info(ctx, "loaded candidate sites from file",
		logger.String("path", path),
		logger.Int("count", len(sites)))
	return sites, nil
}

// generateSites creates candidate sites uniformly within the dataset extent,
// with hub heights drawn from the configured range.
func generateSites(ctx context.Context, config *Config, grid *GridInfo, stats *Stats) ([]Site, error) {
	logger.Get().Info(ctx, "generating candidate sites within dataset extent",
		logger.Int("numSites", config.NumSites),
		logger.Float64("latMin", grid.LatMin),
		logger.Float64("latMax", grid.LatMax),
		logger.Float64("lonMin", grid.LonMin),
		logger.Float64("lonMax", grid.LonMax))

	sites := make([]Site, config.NumSites)

	type siteResult struct {
		index int
		site  Site
		err   error
	}

	resultChan := make(chan siteResult, config.NumSites)

	// Use worker pool for site generation
	workerCount := minInt(config.Workers, config.NumSites)
	sitesPerWorker := config.NumSites / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * sitesPerWorker
		end := start + sitesPerWorker
		if worker == workerCount-1 {
			end = config.NumSites // Last worker gets remaining sites
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- siteResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- siteResult{index: i, site: generateSingleSite(config, grid)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumSites; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during site generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate site %d: %w", result.index, result.err)
			}
			sites[result.index] = result.site
		}
	}

	stats.SitesGenerated = len(sites)
	logger.Get().Info(ctx, "generated candidate sites", logger.Int("count", len(sites)))

	return sites, nil
}

// generateSingleSite draws one candidate inside the dataset extent.
func generateSingleSite(config *Config, grid *GridInfo) Site {
	lat := grid.LatMin + getRandomFloat()*(grid.LatMax-grid.LatMin)
	lon := grid.LonMin + getRandomFloat()*(grid.LonMax-grid.LonMin)
	hub := config.HubHeightMin + getRandomFloat()*(config.HubHeightMax-config.HubHeightMin)

	return Site{
		SiteID:    uuid.New().String(),
		Lat:       lat,
		Lon:       lon,
		HubHeight: hub,
	}
}

// buildScreenings pairs each site with a unique job ID, the chosen curve
// and the campaign year.
func buildScreenings(sites []Site, curve string, year int) []Screening {
	jobs := make([]Screening, len(sites))
	now := time.Now().Unix()
	for i, site := range sites {
		randNum, _ := rand.Int(rand.Reader, big.NewInt(jobIDDivisor))
		jobID := "job_" + strconv.Itoa(i) + "_" + strconv.FormatInt(now, 10) + "_" + strconv.FormatInt(randNum.Int64(), 10)

		jobs[i] = Screening{
			JobID:     jobID,
			SiteID:    site.SiteID,
			Lat:       site.Lat,
			Lon:       site.Lon,
			HubHeight: site.HubHeight,
			Curve:     curve,
			Year:      year,
		}
	}
	return jobs
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
