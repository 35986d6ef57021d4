package turbine

import "errors"

// Sentinel kinds for curve loading errors. Column discovery failures wrap
// powercurve.ErrMalformedCurve at the call site so both can be matched.
var (
	ErrNoSpeedColumn   = errors.New("no wind speed column")
	ErrNoPowerColumn   = errors.New("no power column")
	ErrAmbiguousColumn = errors.New("ambiguous column match")
	ErrUnknownCurve    = errors.New("unknown power curve")
)
