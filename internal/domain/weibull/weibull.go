// Package weibull fits two-parameter Weibull distributions to wind speed
// samples using the method of moments.
package weibull

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// momentExponent is the Justus & Mikhail approximation exponent relating
// the coefficient of variation to the Weibull shape parameter.
const momentExponent = -1.086

// Params holds a fitted two-parameter Weibull distribution. A is the scale
// parameter in the units of the samples (m/s), K the dimensionless shape.
type Params struct {
	A float64 `json:"a"`
	K float64 `json:"k"`
}

// Fit estimates Weibull parameters from wind speed samples by the method
// of moments:
//
//	k = (sigma/mean)^-1.086
//	A = mean / Gamma(1 + 1/k)
//
// sigma is the population standard deviation. NaN samples are dropped
// before fitting. An empty sample set or a zero mean cannot be fitted and
// yields NaN in both fields (see Degenerate).
//
// Constant samples have zero variance and fit to k = +Inf with A equal to
// the sample mean. Such a fit recovers the mean exactly but describes a
// point mass, so it is also reported as degenerate.
func Fit(speeds []float64) Params {
	xs := make([]float64, 0, len(speeds))
	for _, v := range speeds {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return Params{A: math.NaN(), K: math.NaN()}
	}

	mean := stat.Mean(xs, nil)
	if mean == 0 {
		return Params{A: math.NaN(), K: math.NaN()}
	}
	sigma := math.Sqrt(stat.MomentAbout(2, xs, mean, nil))

	k := math.Pow(sigma/mean, momentExponent)
	a := mean / math.Gamma(1+1/k)
	return Params{A: a, K: k}
}

// Degenerate reports whether the fit failed or collapsed: either parameter
// is NaN (empty input, zero mean) or non-finite (zero variance). Degenerate
// parameters describe no usable density and must not be fed to PDF.
func (p Params) Degenerate() bool {
	return math.IsNaN(p.A) || math.IsNaN(p.K) ||
		math.IsInf(p.A, 0) || math.IsInf(p.K, 0)
}

// PDF evaluates the fitted probability density at x. It returns NaN for a
// degenerate fit.
func (p Params) PDF(x float64) float64 {
	if p.Degenerate() {
		return math.NaN()
	}
	return distuv.Weibull{K: p.K, Lambda: p.A}.Prob(x)
}

// Mean returns the distribution mean A*Gamma(1+1/K), or NaN for a
// degenerate fit.
func (p Params) Mean() float64 {
	if p.Degenerate() {
		return math.NaN()
	}
	return p.A * math.Gamma(1+1/p.K)
}
