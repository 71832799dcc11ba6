// Package revenue implements the launch uptake and loss-of-exclusivity
// erosion shapes used to generate commercial revenue for a year in which
// the caller has not supplied an explicit CommercialRow.
package revenue

import (
	"math"

	"rnpvengine/pkg/models"
)

// clampTimeToPeak floors time_to_peak at 1 year, per §4.4's numeric
// semantics (time_to_peak <= 0 is a degenerate input, not a ConfigError).
// This is C1's own input clamp, distinct from the time_to_peak_change
// override's 0.5-year floor in the applicator.
func clampTimeToPeak(timeToPeak float64) float64 {
	if timeToPeak < 1 {
		return 1
	}
	return timeToPeak
}

// LinearUptake ramps revenue linearly from 0 at launch to peak at
// time_to_peak years post-launch, then holds flat at peak.
func LinearUptake(yearsSinceLaunch int, timeToPeak float64, peak float64) float64 {
	if yearsSinceLaunch < 0 {
		return 0.0
	}
	ttp := clampTimeToPeak(timeToPeak)
	if float64(yearsSinceLaunch) >= ttp {
		return peak
	}
	return peak * (float64(yearsSinceLaunch) / ttp)
}

// LogisticUptake ramps revenue along an S-curve centered at
// time_to_peak/2, with steepness chosen so the curve reaches roughly 95%
// of peak by time_to_peak.
func LogisticUptake(yearsSinceLaunch int, timeToPeak float64, peak float64) float64 {
	if yearsSinceLaunch < 0 {
		return 0.0
	}
	ttp := clampTimeToPeak(timeToPeak)
	midpoint := ttp / 2.0
	k := 6.0 / ttp
	fraction := 1.0 / (1.0 + math.Exp(-k*(float64(yearsSinceLaunch)-midpoint)))
	return peak * fraction
}

// ApplyLOEErosion applies loss-of-exclusivity erosion on top of an
// already-computed base sales figure. erosionPct is the fraction of
// sales lost in the first year post-expiry; subsequent years decay
// geometrically by half each year.
func ApplyLOEErosion(baseSales float64, yearsSinceExpiry int, erosionPct float64) float64 {
	if yearsSinceExpiry < 0 {
		return baseSales
	}
	if yearsSinceExpiry == 0 {
		return baseSales * (1.0 - erosionPct)
	}
	remaining := baseSales * (1.0 - erosionPct) * math.Pow(0.5, float64(yearsSinceExpiry))
	return math.Max(remaining, 0.0)
}

// GrossRevenue computes gross commercial revenue for a single calendar
// year, composing uptake first and LOE erosion second, per §4.1's fixed
// composition order.
func GrossRevenue(year, launchYear, patentExpiryYear int, peak float64, timeToPeak float64, erosionPct float64, curve models.UptakeCurve) float64 {
	yearsSinceLaunch := year - launchYear
	if yearsSinceLaunch < 0 {
		return 0.0
	}

	var base float64
	if curve == models.CurveLogistic {
		base = LogisticUptake(yearsSinceLaunch, timeToPeak, peak)
	} else {
		base = LinearUptake(yearsSinceLaunch, timeToPeak, peak)
	}

	yearsSinceExpiry := year - patentExpiryYear
	return ApplyLOEErosion(base, yearsSinceExpiry, erosionPct)
}
