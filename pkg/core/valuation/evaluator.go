// Package valuation implements the deterministic rNPV evaluator (C4): it
// builds the per-year cash-flow table for one snapshot and folds it into
// an expected (risk-adjusted) net present value.
package valuation

import (
	"rnpvengine/pkg/core/discount"
	"rnpvengine/pkg/core/overrides"
	"rnpvengine/pkg/core/revenue"
	"rnpvengine/pkg/core/risk"
	"rnpvengine/pkg/models"
)

// EvaluationResult is C4's output: the per-year cash-flow table plus the
// summary figures the rest of the system displays.
type EvaluationResult struct {
	Rows          []models.CashflowRow
	ENPV          float64
	UnadjustedNPV float64
	TerminalPoS   float64
	PeakSales     float64
	LaunchYear    int
	Warnings      []models.NumericWarning
}

// Evaluate runs the deterministic rNPV pipeline on one snapshot. tailYears
// extends the commercial horizon past patent expiry to absorb LOE erosion
// (and, for Monte Carlo callers, launch delays); §4.4 specifies 3 for
// deterministic evaluation and 5 for the Monte Carlo inner loop.
//
// Evaluate is a pure function: it never mutates snapshot, and two calls
// on the same input produce element-wise identical rows (Testable
// Property 1).
func Evaluate(snapshot *models.Snapshot, tailYears int) (*EvaluationResult, error) {
	if snapshot.HorizonYears <= 0 {
		return nil, models.NewConfigError("horizon_years must be positive, got %d", snapshot.HorizonYears)
	}

	snapshot = overrides.ApplySnapshotLevers(snapshot, snapshot.WhatIfLevers)

	minYear, maxYear := yearSpan(snapshot, tailYears)
	baseYear := minYear

	rows := make([]models.CashflowRow, 0, maxYear-minYear+1)
	runningNPV := 0.0

	for year := minYear; year <= maxYear; year++ {
		rdCost := snapshot.RDCostAt(year)

		commercialCF := commercialCashflow(snapshot, year)

		netCF := commercialCF - rdCost

		cumPoS := risk.CumulativePoS(snapshot.PhaseInputs, year)
		riskAdjCF := netCF * cumPoS

		df := discount.MidYearFactor(year, baseYear, snapshot.DiscountRate)
		pv := riskAdjCF * df
		runningNPV += pv

		rows = append(rows, models.CashflowRow{
			Year:           year,
			RDCost:         rdCost,
			CommercialCF:   commercialCF,
			NetCashflow:    netCF,
			CumulativePoS:  cumPoS,
			RiskAdjustedCF: riskAdjCF,
			DiscountFactor: df,
			PV:             pv,
			CumulativeNPV:  runningNPV,
		})
	}

	terminalPoS := risk.TerminalPoS(snapshot.PhaseInputs)

	var warnings []models.NumericWarning
	unadjustedNPV := 0.0
	if terminalPoS > 0 {
		unadjustedNPV = runningNPV / terminalPoS
	} else {
		warnings = append(warnings, models.NumericWarning{
			Field:  "unadjusted_npv",
			Reason: "terminal_pos is 0; substituted 0 for unadjusted NPV",
		})
	}

	return &EvaluationResult{
		Rows:          rows,
		ENPV:          runningNPV,
		UnadjustedNPV: unadjustedNPV,
		TerminalPoS:   terminalPoS,
		PeakSales:     snapshot.PeakSalesUSDm,
		LaunchYear:    snapshot.LaunchYear,
		Warnings:      warnings,
	}, nil
}

// commercialCashflow computes after-tax commercial cash-flow for one
// year, preferring a caller-supplied CommercialRow and otherwise
// generating gross revenue from C1 (§9's Open Question: this engine
// adopts the aggregate convention as canonical).
func commercialCashflow(snapshot *models.Snapshot, year int) float64 {
	if row, ok := snapshot.CommercialRowAt(year); ok {
		return row.NetCashflowUSDm
	}

	grossRev := revenue.GrossRevenue(
		year, snapshot.LaunchYear, snapshot.PatentExpiryYear,
		snapshot.PeakSalesUSDm, snapshot.TimeToPeakYears,
		snapshot.GenericErosionPct, snapshot.UptakeCurve,
	)

	cogs := grossRev * snapshot.CogsPct
	sga := grossRev * snapshot.SgaPct
	opProfit := grossRev - cogs - sga
	tax := opProfit * snapshot.TaxRate
	if tax < 0 {
		tax = 0 // §4.4: tax clamped non-negative, no loss carry-back modelled
	}
	return opProfit - tax
}

// yearSpan determines the inclusive [year_min, year_max] commercial
// horizon per §4.4 step 1.
func yearSpan(snapshot *models.Snapshot, tailYears int) (int, int) {
	hasAny := false
	minYear, maxYear := snapshot.ValuationYear, snapshot.ValuationYear

	consider := func(y int) {
		if !hasAny {
			minYear, maxYear = y, y
			hasAny = true
			return
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	for _, p := range snapshot.PhaseInputs {
		consider(p.StartYear)
	}
	for _, rc := range snapshot.RDCosts {
		consider(rc.Year)
	}
	consider(snapshot.LaunchYear)

	commercialEnd := snapshot.PatentExpiryYear + tailYears
	consider(commercialEnd)

	if !hasAny {
		return snapshot.ValuationYear, snapshot.ValuationYear
	}
	return minYear, maxYear
}
