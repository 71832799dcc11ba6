// Package portfolio implements the portfolio aggregator (C7): the
// deterministic roll-up of member rNPVs and the correlated Monte Carlo
// path that models shared commercial-demand risk across members via a
// Cholesky-factored correlation matrix.
package portfolio

import (
	"sort"

	"rnpvengine/pkg/core/overrides"
	"rnpvengine/pkg/core/valuation"
	"rnpvengine/pkg/models"
)

const tailYears = 3

// MemberResult is one member's contribution to the deterministic
// summary.
type MemberResult struct {
	SnapshotID int
	ENPV       float64
	Rows       []models.CashflowRow
}

// YearlyTotal is one calendar year's aggregate across every portfolio
// member.
type YearlyTotal struct {
	Year           int
	RDCost         float64
	CommercialCF   float64
	RiskAdjustedCF float64
	PV             float64
	CumulativePV   float64
}

// DeterministicSummary is C7's deterministic-path output: the sum of
// member rNPVs plus yearly totals aggregated across members.
type DeterministicSummary struct {
	TotalENPV float64
	Members   []MemberResult
	Yearly    []YearlyTotal
}

// Summarize runs C4 on every non-killed portfolio member's effective
// snapshot (including any add_hypothetical/add_bd_deal synthetics) and
// sums rNPVs and per-year cash-flow totals.
func Summarize(p *models.Portfolio, fetch func(models.SnapshotRef) (*models.Snapshot, error)) (*DeterministicSummary, error) {
	members, err := overrides.ApplyPortfolioOverrides(p, fetch)
	if err != nil {
		return nil, err
	}

	summary := &DeterministicSummary{}
	byYear := make(map[int]YearlyTotal)

	for _, m := range members {
		result, err := valuation.Evaluate(m.Snapshot, tailYears)
		if err != nil {
			return nil, err
		}
		summary.TotalENPV += result.ENPV
		summary.Members = append(summary.Members, MemberResult{
			SnapshotID: m.SnapshotID,
			ENPV:       result.ENPV,
			Rows:       result.Rows,
		})

		for _, row := range result.Rows {
			total := byYear[row.Year]
			total.Year = row.Year
			total.RDCost += row.RDCost
			total.CommercialCF += row.CommercialCF
			total.RiskAdjustedCF += row.RiskAdjustedCF
			total.PV += row.PV
			byYear[row.Year] = total
		}
	}

	summary.Yearly = make([]YearlyTotal, 0, len(byYear))
	for _, total := range byYear {
		summary.Yearly = append(summary.Yearly, total)
	}
	sort.Slice(summary.Yearly, func(i, j int) bool { return summary.Yearly[i].Year < summary.Yearly[j].Year })

	running := 0.0
	for i := range summary.Yearly {
		running += summary.Yearly[i].PV
		summary.Yearly[i].CumulativePV = running
	}

	return summary, nil
}
