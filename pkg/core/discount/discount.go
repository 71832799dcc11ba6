// Package discount implements the mid-year-convention discount kernel
// (C2): cash-flows placed in year y are treated as occurring at y + 0.5.
package discount

import "math"

// MidYearFactor returns the discount factor for a cash-flow in year,
// discounted at rate from baseYear under the mid-year convention. Years
// before baseYear clamp to a factor of 1.0; a zero rate always yields 1.0.
func MidYearFactor(year, baseYear int, rate float64) float64 {
	if year < baseYear {
		return 1.0
	}
	if rate == 0 {
		return 1.0
	}
	t := float64(year-baseYear) + 0.5
	return 1.0 / math.Pow(1.0+rate, t)
}
