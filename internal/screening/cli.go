package screening

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kselvik/anemos/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "screening_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the screening tool.
func ShowHelp() {
	os.Stdout.WriteString(`Anemos Site Screening Tool
==========================

A concurrent tool for screening candidate wind farm sites against a running
anemos service and verifying the resulting rankings.

Usage:
  go run cmd/screen-sites/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sites int
        Number of candidate sites to generate within the dataset extent
        (default 1000)
  -sites-file string
        CSV of candidate sites (site_id,lat,lon,hub_height_m); overrides -sites
  -top int
        Number of top entries to fetch (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -curve string
        Power curve name (default: first curve registered on the service)
  -year int
        Calendar year to screen (default: dataset start year)
  -hub-min float
        Lower bound for generated hub heights in meters (default 80)
  -hub-max float
        Upper bound for generated hub heights in meters (default 140)
  -report string
        Output CSV for results (default: screening_report_TIMESTAMP.csv)
  -log string
        Log file for campaign output (default: screening_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Screen 1000 random sites with default settings
  go run cmd/screen-sites/main.go

  # Screen a fixed portfolio from CSV
  go run cmd/screen-sites/main.go -sites-file portfolio.csv -top 20

  # Heavier campaign with a specific turbine
  go run cmd/screen-sites/main.go -sites 50000 -workers 16 -curve nrel-5mw
`)
}
