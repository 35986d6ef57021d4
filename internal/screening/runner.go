package screening

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/kselvik/anemos/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete screening campaign.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting screening campaign",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sites", config.NumSites),
		logger.String("sitesFile", config.SitesFile),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("curve", config.Curve),
		logger.Int("year", config.Year),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the dataset extent and registered curves
	client := newHTTPClient(config.Timeout)
	grid, err := fetchGridInfo(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("grid info retrieval failed: %w", err)
	}

	curve := config.Curve
	if curve == "" {
		if len(grid.Curves) == 0 {
			return fmt.Errorf("service has no registered power curves")
		}
		curve = grid.Curves[0]
		logger.Get().Info(ctx, "using first registered curve", logger.String("curve", curve))
	}

	year := config.Year
	if year == 0 {
		year = grid.TimeStart.UTC().Year()
		logger.Get().Info(ctx, "using dataset start year", logger.Int("year", year))
	}

	// Step 3: Load or generate candidate sites
	var sites []Site
	if config.SitesFile != "" {
		sites, err = loadSites(ctx, config.SitesFile)
		if err != nil {
			return fmt.Errorf("site loading failed: %w", err)
		}
		stats.SitesGenerated = len(sites)
	} else {
		sites, err = generateSites(ctx, config, grid, stats)
		if err != nil {
			return fmt.Errorf("site generation failed: %w", err)
		}
	}

	jobs := buildScreenings(sites, curve, year)

	// Step 4: Submit jobs concurrently
	if err := submitScreenings(ctx, config, jobs, stats); err != nil {
		return fmt.Errorf("job submission failed: %w", err)
	}

	// Step 5: Wait for processing
	logger.Get().Info(ctx, "waiting for jobs to be processed")
	select {
	case <-ctx.Done():
		return fmt.Errorf("cancelled while waiting for processing: %w", ctx.Err())
	case <-time.After(ProcessingDelay):
	}

	// Step 6: Retrieve rankings concurrently
	rankings, err := retrieveRankings(ctx, config, jobs, stats)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	// Step 7: Get the top list
	top, err := getTopSites(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("top list retrieval failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(config, rankings, top); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save report
	if err := saveReport(ctx, config, rankings); err != nil {
		logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "campaign completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes the retrieved rankings to a CSV report.
func saveReport(ctx context.Context, config *Config, rankings []Entry) error {
	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to save")
	}

	// Determine output filename
	filename := config.ReportFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "screening_report_" + timestamp + ".csv"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if err := gocsv.MarshalFile(&rankings, file); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved", logger.String("filename", filename), logger.Int("rows", len(rankings)))
	return nil
}

// displayFinalStats prints the final campaign statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, jobsPerSecond float64

	if stats.JobsSubmitted > 0 {
		acceptRate = float64(stats.JobsAccepted) / float64(stats.JobsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		jobsPerSecond = float64(stats.JobsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sitesGenerated", stats.SitesGenerated),
		logger.Int("jobsSubmitted", stats.JobsSubmitted),
		logger.Int("jobsAccepted", stats.JobsAccepted),
		logger.Int("jobsDuplicate", stats.JobsDuplicate),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
		logger.Int("topEntries", stats.TopEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("jobsPerSecond", jobsPerSecond))
}
