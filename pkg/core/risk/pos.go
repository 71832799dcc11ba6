// Package risk implements the risk-adjustment kernel (C3): cumulative and
// terminal probability of success across a snapshot's R&D phases.
package risk

import "rnpvengine/pkg/models"

// CumulativePoS multiplies the probability of success of every phase
// whose start year is at or before the given year. Phases not yet
// started don't reduce the cumulative PoS; when no phase has started,
// the value is 1.0.
func CumulativePoS(phases []models.PhaseInput, year int) float64 {
	cum := 1.0
	for _, p := range phases {
		if year >= p.StartYear {
			cum *= p.ProbabilityOfSuccess
		}
	}
	return cum
}

// TerminalPoS is the product of every phase's probability of success,
// regardless of start year.
func TerminalPoS(phases []models.PhaseInput) float64 {
	cum := 1.0
	for _, p := range phases {
		cum *= p.ProbabilityOfSuccess
	}
	return cum
}
