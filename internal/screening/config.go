// Package screening drives an end-to-end site screening campaign against a
// running service: it generates or loads candidate sites, submits them
// concurrently, then pulls rankings back and checks them for consistency.
package screening

import "time"

// Config holds configuration for a screening campaign.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumSites     int           // Number of candidate sites to generate
	SitesFile    string        // Optional CSV of candidate sites; overrides generation
	TopN         int           // Number of top entries to fetch
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Curve        string        // Power curve name; empty picks the first registered
	Year         int           // Calendar year to screen; 0 uses the dataset start year
	HubHeightMin float64       // Lower bound for generated hub heights
	HubHeightMax float64       // Upper bound for generated hub heights
	ReportFile   string        // Output CSV for screening results
	LogFile      string        // Log file for campaign output
	Verbose      bool          // Enable verbose logging
}

// Screening is one job submission, mirroring POST /v1/screenings.
type Screening struct {
	JobID     string  `json:"job_id"`
	SiteID    string  `json:"site_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	HubHeight float64 `json:"hub_height_m"`
	Curve     string  `json:"curve"`
	Year      int     `json:"year"`
}

// Site is one candidate row in a sites CSV.
type Site struct {
	SiteID    string  `csv:"site_id"`
	Lat       float64 `csv:"lat"`
	Lon       float64 `csv:"lon"`
	HubHeight float64 `csv:"hub_height_m"`
}

// Entry represents a ranked site returned by the service.
type Entry struct {
	Rank      int     `json:"rank" csv:"rank"`
	SiteID    string  `json:"site_id" csv:"site_id"`
	AEPMWh    float64 `json:"aep_mwh" csv:"aep_mwh"`
	CurveName string  `json:"curve" csv:"curve"`
	HubHeight float64 `json:"hub_height_m" csv:"hub_height_m"`
	Year      int     `json:"year" csv:"year"`
}

// AckResponse represents the response from job submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// GridInfo mirrors GET /v1/grid: the dataset extent and available curves.
type GridInfo struct {
	LatMin    float64   `json:"lat_min"`
	LatMax    float64   `json:"lat_max"`
	LonMin    float64   `json:"lon_min"`
	LonMax    float64   `json:"lon_max"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
	Steps     int       `json:"steps"`
	Curves    []string  `json:"curves"`
}

// Stats holds campaign statistics.
type Stats struct {
	SitesGenerated    int
	JobsSubmitted     int
	JobsAccepted      int
	JobsDuplicate     int
	JobsFailed        int
	RankingsRetrieved int
	TopEntries        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
