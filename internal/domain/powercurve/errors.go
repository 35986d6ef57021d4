package powercurve

import "errors"

// ErrMalformedCurve indicates a power curve whose points cannot define a
// piecewise-linear function: too few points, mismatched columns,
// non-ascending speeds, or NaN values.
var ErrMalformedCurve = errors.New("power curve malformed")
