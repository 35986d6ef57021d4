package gridpack

import "errors"

var (
	// ErrNoObservations indicates Build was called before any rows were added.
	ErrNoObservations = errors.New("no observations")
	// ErrAxisTooSmall indicates the observations span fewer than two distinct
	// points on a spatial axis, which cannot form an interpolatable grid.
	ErrAxisTooSmall = errors.New("spatial axis needs at least 2 distinct points")
	// ErrSparseCube indicates the observations do not cover the full
	// time x lat x lon product.
	ErrSparseCube = errors.New("observations do not cover the full cube")
	// ErrUnsupportedFormat indicates the input file extension is not one of
	// .csv, .csv.gz, .csv.zst or .parquet.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMalformedRow indicates a row could not be parsed.
	ErrMalformedRow = errors.New("malformed row")
)
