// Package overrides implements the scenario-lever applicator (C5): it
// turns a snapshot plus a sequence of Overrides into an effective
// snapshot, a deep functional copy the evaluator and Monte Carlo sampler
// can run against without ever touching the source.
package overrides

import (
	"math"

	"rnpvengine/pkg/models"
)

// snapshotOrder fixes the application order for snapshot-scoped kinds;
// later kinds see the effects of earlier ones.
var snapshotOrder = []models.OverrideKind{
	models.OverridePeakSalesChange,
	models.OverrideSROverride,
	models.OverridePhaseDelay,
	models.OverrideLaunchDelay,
	models.OverrideTimeToPeakChange,
	models.OverrideAccelerate,
	models.OverrideBudgetRealloc,
}

// ApplyOverrides applies the snapshot-scoped overrides in snapshotOrder
// and returns a new effective snapshot. The source snapshot is never
// mutated (Testable Property 2).
func ApplyOverrides(snapshot *models.Snapshot, overs []models.Override) (*models.Snapshot, error) {
	effective := snapshot.Clone()

	byKind := make(map[models.OverrideKind][]models.Override)
	for _, o := range overs {
		if !isSnapshotScoped(o.Kind) {
			continue
		}
		byKind[o.Kind] = append(byKind[o.Kind], o)
	}

	for _, kind := range snapshotOrder {
		for _, o := range byKind[kind] {
			if err := applyOne(effective, o); err != nil {
				return nil, err
			}
		}
	}

	return effective, nil
}

// ApplySnapshotLevers applies a snapshot's own inline WhatIfLevers (the
// lightweight single-struct form used by callers who want one evaluation
// tweaked without building an Override list) and returns a new effective
// snapshot. A nil levers argument returns an unmodified clone. The source
// snapshot is never mutated (Testable Property 2).
func ApplySnapshotLevers(snapshot *models.Snapshot, levers *models.WhatIfLevers) *models.Snapshot {
	effective := snapshot.Clone()
	if levers == nil {
		return effective
	}

	if levers.PeakSalesMultiplier != 0 {
		effective.PeakSalesUSDm *= levers.PeakSalesMultiplier
	}
	if levers.LaunchDelayYears != 0 {
		effective.LaunchYear += levers.LaunchDelayYears
		effective.PatentExpiryYear += levers.LaunchDelayYears
	}
	for phaseName, pos := range levers.PosOverride {
		for i := range effective.PhaseInputs {
			if effective.PhaseInputs[i].PhaseName == phaseName {
				effective.PhaseInputs[i].ProbabilityOfSuccess = pos
				break
			}
		}
	}
	if levers.DiscountRateOverride != nil {
		effective.DiscountRate = *levers.DiscountRateOverride
	}
	if levers.CogsPctOverride != nil {
		effective.CogsPct = *levers.CogsPctOverride
	}
	if levers.SgaPctOverride != nil {
		effective.SgaPct = *levers.SgaPctOverride
	}

	return effective
}

func isSnapshotScoped(kind models.OverrideKind) bool {
	switch kind {
	case models.OverrideKill, models.OverrideAddHypothetical, models.OverrideAddBDDeal:
		return false
	default:
		return true
	}
}

func applyOne(s *models.Snapshot, o models.Override) error {
	switch o.Kind {
	case models.OverridePeakSalesChange:
		applyPeakSalesChange(s, o.Value)
	case models.OverrideSROverride:
		return applySROverride(s, o)
	case models.OverridePhaseDelay:
		applyPhaseDelay(s, o.Value)
	case models.OverrideLaunchDelay:
		applyLaunchDelay(s, o.Value)
	case models.OverrideTimeToPeakChange:
		applyTimeToPeakChange(s, o.Value)
	case models.OverrideAccelerate:
		return applyAccelerate(s, o)
	case models.OverrideBudgetRealloc:
		applyBudgetRealloc(s, o)
	default:
		return models.NewConfigError("unknown override kind %q", o.Kind)
	}
	return nil
}

// applyPeakSalesChange multiplies peak_sales by 1 + value/100 and every
// commercial row's gross sales likewise.
func applyPeakSalesChange(s *models.Snapshot, valuePct float64) {
	factor := 1 + valuePct/100
	s.PeakSalesUSDm *= factor
	for i := range s.CommercialRows {
		s.CommercialRows[i].GrossSalesUSDm *= factor
	}
}

// applySROverride replaces the PoS of the phase named in o.Phase.
func applySROverride(s *models.Snapshot, o models.Override) error {
	if o.Phase == nil {
		return models.NewConfigError("sr_override requires a phase")
	}
	for i := range s.PhaseInputs {
		if s.PhaseInputs[i].PhaseName == *o.Phase {
			s.PhaseInputs[i].ProbabilityOfSuccess = o.Value
			return nil
		}
	}
	return models.NewScenarioConflictError("sr_override references unknown phase %q", *o.Phase)
}

// applyPhaseDelay shifts every phase start year, the approval date, and
// the launch/expiry pair by value/12 years, preserving the patent gap.
func applyPhaseDelay(s *models.Snapshot, valueMonths float64) {
	yearsShift := valueMonths / 12
	shift := int(math.Round(yearsShift))

	for i := range s.PhaseInputs {
		s.PhaseInputs[i].StartYear += shift
	}
	s.ApprovalDate += yearsShift
	s.LaunchYear += shift
	s.PatentExpiryYear += shift
}

// applyLaunchDelay shifts only the commercial launch/expiry pair,
// preserving the gap between them.
func applyLaunchDelay(s *models.Snapshot, valueMonths float64) {
	shift := int(math.Round(valueMonths / 12))
	s.LaunchYear += shift
	s.PatentExpiryYear += shift
}

// applyTimeToPeakChange adds value (years) to time_to_peak, floored at 0.5
// years per spec.
func applyTimeToPeakChange(s *models.Snapshot, valueYears float64) {
	newTTP := s.TimeToPeakYears + valueYears
	if newTTP < 0.5 {
		newTTP = 0.5
	}
	s.TimeToPeakYears = newTTP
}

// applyBudgetRealloc multiplies every R&D cost row by value. o.Phase is
// not consulted: this engine's RDCost carries no phase tag, so a
// budget_realloc naming a phase scales all R&D cost rows just like an
// unscoped one.
func applyBudgetRealloc(s *models.Snapshot, o models.Override) {
	for i := range s.RDCosts {
		s.RDCosts[i].CostUSDm *= o.Value
	}
}

// Acceleration curve defaults, grounded on the kill/continue/accelerate
// engine: a concave log model caps both the budget multiplier and the
// resulting timeline reduction. Configure overrides these at startup from
// config.EngineConfig.Acceleration; until then the engine-contract
// defaults apply.
var (
	accelerationAlpha    = 0.5
	maxBudgetMultiplier  = 2.0
	maxTimelineReduction = 0.50
)

// AccelerationParams mirrors config.AccelerationConfig without importing
// it, so Configure can be called from cmd/ wiring without creating an
// import cycle between config and overrides.
type AccelerationParams struct {
	Alpha                float64
	MaxBudgetMultiplier  float64
	MaxTimelineReduction float64
}

// Configure installs deployment-specific acceleration-curve constants,
// overriding the compiled-in defaults. Call once at startup after loading
// config.EngineConfig.
func Configure(p AccelerationParams) {
	accelerationAlpha = p.Alpha
	maxBudgetMultiplier = p.MaxBudgetMultiplier
	maxTimelineReduction = p.MaxTimelineReduction
}

// AccelerationReduction returns the fraction of a phase's duration saved
// for a given budget multiplier, per the concave curve
// reduction = alpha * ln(budget_multiplier), clamped to [0, 0.50] and to
// budget_multiplier <= 2.0 by default (see Configure).
func AccelerationReduction(budgetMultiplier float64) float64 {
	if budgetMultiplier <= 1.0 {
		return 0
	}
	bm := math.Min(budgetMultiplier, maxBudgetMultiplier)
	reduction := accelerationAlpha * math.Log(bm)
	return math.Min(reduction, maxTimelineReduction)
}

// applyAccelerate reduces the named phase's duration by |value| months,
// optionally paired with a budget uplift via BudgetMultiplier; the uplift
// goes through applyBudgetRealloc and so scales every R&D cost row, not
// only the named phase's.
func applyAccelerate(s *models.Snapshot, o models.Override) error {
	if o.Phase == nil {
		return models.NewConfigError("accelerate requires a phase")
	}

	found := false
	for i := range s.PhaseInputs {
		if s.PhaseInputs[i].PhaseName != *o.Phase {
			continue
		}
		found = true

		reduction := math.Abs(o.Value) / 12
		if o.BudgetMultiplier != nil {
			curveReduction := AccelerationReduction(*o.BudgetMultiplier)
			modelled := curveReduction * s.PhaseInputs[i].DurationYears
			if modelled > reduction {
				reduction = modelled
			}
		}
		maxReduction := s.PhaseInputs[i].DurationYears * maxTimelineReduction
		if reduction > maxReduction {
			reduction = maxReduction
		}
		s.PhaseInputs[i].DurationYears -= reduction
		if s.PhaseInputs[i].DurationYears < 0 {
			s.PhaseInputs[i].DurationYears = 0
		}
		break
	}
	if !found {
		return models.NewScenarioConflictError("accelerate references unknown phase %q", *o.Phase)
	}

	if o.BudgetMultiplier != nil {
		applyBudgetRealloc(s, models.Override{Value: *o.BudgetMultiplier, Phase: o.Phase})
	}
	return nil
}
