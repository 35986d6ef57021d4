// Package gridpack assembles tabular wind component observations into
// regular latitude/longitude cubes and writes them as NetCDF classic
// datasets the grid store can load. Inputs may be CSV (plain, gzip or
// zstd compressed) or Parquet; every input row carries a timestamp, a
// grid node position and the u/v components at both measurement heights.
package gridpack

import (
	"fmt"
	"strconv"
	"time"
)

// Observation is one wind component sample at one grid node and time step.
type Observation struct {
	Time time.Time
	Lat  float64
	Lon  float64
	U10  float64
	V10  float64
	U100 float64
	V100 float64
}

// csvRow mirrors the tabular CSV layout. Timestamps are kept as strings
// so both RFC 3339 and unix epoch seconds can appear in the same column.
type csvRow struct {
	Time string  `csv:"time"`
	Lat  float64 `csv:"lat"`
	Lon  float64 `csv:"lon"`
	U10  float64 `csv:"u10"`
	V10  float64 `csv:"v10"`
	U100 float64 `csv:"u100"`
	V100 float64 `csv:"v100"`
}

// parquetRow mirrors the Parquet schema. Timestamps are unix epoch seconds.
type parquetRow struct {
	Timestamp int64   `parquet:"timestamp"`
	Lat       float64 `parquet:"lat"`
	Lon       float64 `parquet:"lon"`
	U10       float64 `parquet:"u10"`
	V10       float64 `parquet:"v10"`
	U100      float64 `parquet:"u100"`
	V100      float64 `parquet:"v100"`
}

func (r csvRow) observation() (Observation, error) {
	ts, err := parseTime(r.Time)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return Observation{
		Time: ts,
		Lat:  r.Lat, Lon: r.Lon,
		U10: r.U10, V10: r.V10,
		U100: r.U100, V100: r.V100,
	}, nil
}

func (r parquetRow) observation() Observation {
	return Observation{
		Time: time.Unix(r.Timestamp, 0).UTC(),
		Lat:  r.Lat, Lon: r.Lon,
		U10: r.U10, V10: r.V10,
		U100: r.U100, V100: r.V100,
	}
}

// parseTime accepts RFC 3339 timestamps or unix epoch seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}
