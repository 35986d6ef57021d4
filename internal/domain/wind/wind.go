// Package wind holds the closed-form vector and shear math at the core of
// the assessment pipeline. Everything here is pure: no I/O, no state.
package wind

import (
	"math"
)

// DefaultAlpha is the power-law shear exponent under the neutral
// atmospheric stability assumption.
const DefaultAlpha = 0.14

const degPerRad = 180 / math.Pi

// SpeedDir converts eastward/northward components (m/s) to wind speed and
// meteorological direction: degrees the wind blows FROM, 0 = North,
// increasing clockwise, in [0, 360).
//
// Calm air (u == v == 0) maps to direction 0 by convention; atan2's
// platform behavior at (0, 0) is deliberately not relied upon.
func SpeedDir(u, v float64) (speed, dir float64) {
	if u == 0 && v == 0 {
		return 0, 0
	}
	speed = math.Hypot(u, v)
	dir = math.Mod(math.Atan2(-u, -v)*degPerRad+360, 360)
	return speed, dir
}

// SpeedDirSeries converts aligned component slices element-wise.
// The inputs must have equal length.
func SpeedDirSeries(us, vs []float64) (speeds, dirs []float64) {
	speeds = make([]float64, len(us))
	dirs = make([]float64, len(us))
	for i := range us {
		speeds[i], dirs[i] = SpeedDir(us[i], vs[i])
	}
	return speeds, dirs
}

// PowerLaw projects a speed observed at zRef meters to zTarget meters:
//
//	V(zTarget) = V(zRef) * (zTarget/zRef)^alpha
//
// zRef must be positive; this is a documented precondition, not validated
// here. zTarget == zRef is the identity for any alpha.
func PowerLaw(v, zRef, zTarget, alpha float64) float64 {
	if zTarget == zRef {
		return v
	}
	return v * math.Pow(zTarget/zRef, alpha)
}

// PowerLawSeries applies PowerLaw element-wise, returning a new slice.
func PowerLawSeries(vs []float64, zRef, zTarget, alpha float64) []float64 {
	out := make([]float64, len(vs))
	factor := math.Pow(zTarget/zRef, alpha)
	if zTarget == zRef {
		factor = 1
	}
	for i, v := range vs {
		out[i] = v * factor
	}
	return out
}
