// Package energy turns hub-height power series into annual energy
// estimates.
package energy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kselvik/anemos/internal/domain/types"
)

// refHeightCutover is the hub height in meters above which the 100m wind
// level approximates hub conditions better than the 10m level.
const refHeightCutover = 50.0

// stepTolerance bounds the allowed relative deviation between the
// configured step duration and the observed median spacing.
const stepTolerance = 0.01

// RefHeight selects the measurement level whose winds best approximate a
// hub: strictly above 50m the 100m level, otherwise the 10m level.
func RefHeight(hubHeight float64) types.Height {
	if hubHeight > refHeightCutover {
		return types.Height100
	}
	return types.Height10
}

// AEP integrates a turbine power series (kW) over its time steps and
// returns the produced energy in MWh. Each sample counts for stepHours
// hours of production.
func AEP(powersKW []float64, stepHours float64) float64 {
	sum := 0.0
	for _, p := range powersKW {
		sum += p
	}
	return sum * stepHours / 1000
}

// ValidateStep checks that the observed median spacing of times agrees
// with stepHours within 1%. The median tolerates isolated gaps from
// missing records. Fewer than two timestamps leave nothing to check.
// A mismatch wraps ErrStepMismatch.
func ValidateStep(times []time.Time, stepHours float64) error {
	if len(times) < 2 {
		return nil
	}
	diffs := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		diffs[i-1] = times[i].Sub(times[i-1]).Hours()
	}
	sort.Float64s(diffs)
	med := stat.Quantile(0.5, stat.Empirical, diffs, nil)
	if math.Abs(med-stepHours) > stepTolerance*stepHours {
		return fmt.Errorf("%w: configured %g h, observed median %g h",
			ErrStepMismatch, stepHours, med)
	}
	return nil
}
