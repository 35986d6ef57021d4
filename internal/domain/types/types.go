// Package types contains common types used across the application.
package types

import (
	"fmt"
	"time"
)

// Height is a measurement height above ground, in meters.
type Height float64

// Heights with u/v component variables present in grid datasets.
const (
	Height10  Height = 10
	Height100 Height = 100
)

// SupportedHeights returns the heights the grid data store can serve,
// ascending.
func SupportedHeights() []Height {
	return []Height{Height10, Height100}
}

// Valid reports whether h is one of the supported heights.
func (h Height) Valid() bool {
	for _, s := range SupportedHeights() {
		if h == s {
			return true
		}
	}
	return false
}

// Meters returns the height as a plain float64.
func (h Height) Meters() float64 { return float64(h) }

func (h Height) String() string { return fmt.Sprintf("%gm", float64(h)) }

// UVNames returns the dataset variable names holding the eastward and
// northward components at this height, e.g. ("u10", "v10").
func (h Height) UVNames() (u, v string) {
	return fmt.Sprintf("u%g", float64(h)), fmt.Sprintf("v%g", float64(h))
}

// Series is a point time series of wind speed and direction, aligned by
// index. Derived on each query; never stored.
type Series struct {
	Times []time.Time `json:"times"`
	Speed []float64   `json:"speed"`     // m/s
	Dir   []float64   `json:"direction"` // degrees, blowing from, 0=N clockwise
}

// Len returns the number of samples in the series.
func (s Series) Len() int { return len(s.Times) }

// SampleRequest identifies a point time series on the grid.
type SampleRequest struct {
	Lat      float64
	Lon      float64
	Height   Height
	FromYear int
	ToYear   int
}

// GridBounds describes the loaded dataset's extent.
type GridBounds struct {
	LatMin    float64   `json:"lat_min"`
	LatMax    float64   `json:"lat_max"`
	LonMin    float64   `json:"lon_min"`
	LonMax    float64   `json:"lon_max"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
	Steps     int       `json:"steps"`
	Heights   []Height  `json:"heights"`
}

// Contains reports whether (lat, lon) lies inside the spatial extent.
func (b GridBounds) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Entry represents a ranked site in best-AEP order.
type Entry struct {
	Rank      int     `json:"rank"`
	SiteID    string  `json:"site_id"`
	AEPMWh    float64 `json:"aep_mwh"`
	CurveName string  `json:"curve"`
	HubHeight float64 `json:"hub_height_m"`
	Year      int     `json:"year"`
}
