// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// Job is one site-screening work item: estimate the annual energy
// production of a candidate site with a given turbine configuration.
// JobID is the idempotency key; SiteID identifies the site in rankings.
type Job struct {
	JobID     string  // unique id for idempotency
	SiteID    string  // candidate site identifier
	Lat       float64 // degrees north
	Lon       float64 // degrees east
	HubHeight float64 // meters above ground
	CurveName string  // registered power curve name
	Year      int     // calendar year to evaluate
}

// Validate checks the fields a job needs before it can be enqueued.
// Spatial extent is not checked here; the grid store owns that.
func (j Job) Validate() error {
	switch {
	case j.JobID == "":
		return fmt.Errorf("job: %w", ErrMissingJobID)
	case j.SiteID == "":
		return fmt.Errorf("job %s: %w", j.JobID, ErrMissingSiteID)
	case j.Lat < -90 || j.Lat > 90:
		return fmt.Errorf("job %s: %w: lat %g", j.JobID, ErrBadCoordinate, j.Lat)
	case j.Lon < -180 || j.Lon > 360:
		return fmt.Errorf("job %s: %w: lon %g", j.JobID, ErrBadCoordinate, j.Lon)
	case j.HubHeight <= 0:
		return fmt.Errorf("job %s: %w: hub height %g", j.JobID, ErrBadHubHeight, j.HubHeight)
	case j.CurveName == "":
		return fmt.Errorf("job %s: %w", j.JobID, ErrMissingCurve)
	case j.Year < 1900 || j.Year > 2200:
		return fmt.Errorf("job %s: %w: year %d", j.JobID, ErrBadYear, j.Year)
	}
	return nil
}

// SiteAEP is a completed screening result for one site.
type SiteAEP struct {
	SiteID     string
	AEPMWh     float64
	CurveName  string
	HubHeight  float64
	Year       int
	ComputedAt time.Time
}
