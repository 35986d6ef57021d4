package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/kselvik/anemos/internal/screening"
)

// Default configuration constants.
const (
	defaultNumSites        = 1000
	defaultTopN            = 50
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultCampaignTimeout = 10 * time.Minute
	defaultHubMin          = 80.0
	defaultHubMax          = 140.0
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSites   = flag.Int("sites", defaultNumSites, "Number of candidate sites to generate")
		sitesFile  = flag.String("sites-file", "", "CSV of candidate sites (site_id,lat,lon,hub_height_m); overrides -sites")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		curve      = flag.String("curve", "", "Power curve name (default: first registered curve)")
		year       = flag.Int("year", 0, "Calendar year to screen (default: dataset start year)")
		hubMin     = flag.Float64("hub-min", defaultHubMin, "Lower bound for generated hub heights in meters")
		hubMax     = flag.Float64("hub-max", defaultHubMax, "Upper bound for generated hub heights in meters")
		reportFile = flag.String("report", "", "Output CSV for results (default: screening_report_TIMESTAMP.csv)")
		logFile    = flag.String("log", "", "Log file for campaign output (default: screening_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		screening.ShowHelp()
		return
	}

	// Setup logging
	if err := screening.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultCampaignTimeout)
	defer cancel()

	// Create campaign configuration
	config := &screening.Config{
		BaseURL:      *baseURL,
		NumSites:     *numSites,
		SitesFile:    *sitesFile,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		Curve:        *curve,
		Year:         *year,
		HubHeightMin: *hubMin,
		HubHeightMax: *hubMax,
		ReportFile:   *reportFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the campaign
	if err := screening.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Campaign failed: " + err.Error() + "\n")
		return
	}
}
