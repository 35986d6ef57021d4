// Package powercurve models turbine power curves as piecewise-linear
// functions of wind speed.
package powercurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Curve is an immutable, validated turbine power curve. Inside the tabulated
// speed range it interpolates linearly between points; outside it the
// turbine produces nothing (below cut-in, above cut-out).
type Curve struct {
	name   string
	speeds []float64
	powers []float64
	pl     interp.PiecewiseLinear
}

// New builds a Curve from tabulated (wind speed m/s, power kW) points.
// The points must satisfy, in this order of checking:
//
//   - equal numbers of speeds and powers
//   - at least two points
//   - no NaN in either column
//   - strictly ascending speeds
//
// Violations return an error wrapping ErrMalformedCurve. The input slices
// are copied; callers may reuse them.
func New(name string, speedsMS, powersKW []float64) (*Curve, error) {
	if len(speedsMS) != len(powersKW) {
		return nil, fmt.Errorf("%w: %d speed points vs %d power points",
			ErrMalformedCurve, len(speedsMS), len(powersKW))
	}
	if len(speedsMS) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d",
			ErrMalformedCurve, len(speedsMS))
	}
	for i := range speedsMS {
		if math.IsNaN(speedsMS[i]) || math.IsNaN(powersKW[i]) {
			return nil, fmt.Errorf("%w: NaN at point %d", ErrMalformedCurve, i)
		}
		if i > 0 && speedsMS[i] <= speedsMS[i-1] {
			return nil, fmt.Errorf("%w: speeds must be strictly ascending, point %d has %g after %g",
				ErrMalformedCurve, i, speedsMS[i], speedsMS[i-1])
		}
	}

	c := &Curve{
		name:   name,
		speeds: append([]float64(nil), speedsMS...),
		powers: append([]float64(nil), powersKW...),
	}
	// Fit panics on invalid input, which the checks above rule out.
	if err := c.pl.Fit(c.speeds, c.powers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCurve, err)
	}
	return c, nil
}

// Name returns the curve's identifier, typically the turbine model.
func (c *Curve) Name() string { return c.name }

// Power returns the turbine output in kW at wind speed v (m/s). Speeds
// strictly outside the tabulated range yield exactly 0; the endpoints
// themselves yield their tabulated power. A NaN speed yields NaN.
func (c *Curve) Power(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if v < c.speeds[0] || v > c.speeds[len(c.speeds)-1] {
		return 0
	}
	return c.pl.Predict(v)
}

// PowerSeries evaluates Power element-wise, returning a new slice.
func (c *Curve) PowerSeries(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = c.Power(v)
	}
	return out
}

// MaxPower returns the largest tabulated power value in kW. It bounds any
// value Power can return and is used for plausibility checks on energy
// estimates.
func (c *Curve) MaxPower() float64 {
	m := c.powers[0]
	for _, p := range c.powers[1:] {
		if p > m {
			m = p
		}
	}
	return m
}

// Range returns the tabulated speed range [vMin, vMax] in m/s.
func (c *Curve) Range() (vMin, vMax float64) {
	return c.speeds[0], c.speeds[len(c.speeds)-1]
}

// Points returns copies of the tabulated speed and power columns.
func (c *Curve) Points() (speedsMS, powersKW []float64) {
	return append([]float64(nil), c.speeds...), append([]float64(nil), c.powers...)
}
