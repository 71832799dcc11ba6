package portfolio

import (
	"math"
	"testing"

	"rnpvengine/pkg/models"
)

func memberSnapshot(id int) *models.Snapshot {
	return &models.Snapshot{
		ID:                id,
		ValuationYear:     2025,
		HorizonYears:      20,
		PhaseInputs:       []models.PhaseInput{{PhaseName: "P2", ProbabilityOfSuccess: 0.4, StartYear: 2025}},
		RDCosts:           []models.RDCost{{Year: 2025, CostUSDm: 10}},
		LaunchYear:        2030,
		PatentExpiryYear:  2040,
		PeakSalesUSDm:     1000,
		TimeToPeakYears:   5,
		GenericErosionPct: 0.80,
		CogsPct:           0.20,
		SgaPct:            0.25,
		TaxRate:           0.21,
		DiscountRate:      0.10,
		UptakeCurve:       models.CurveLinear,
	}
}

func twoMemberPortfolio() (*models.Portfolio, func(models.SnapshotRef) (*models.Snapshot, error)) {
	snapshots := map[int]*models.Snapshot{
		1: memberSnapshot(1),
		2: memberSnapshot(2),
	}
	p := &models.Portfolio{
		ID:      1,
		Members: []models.SnapshotRef{{SnapshotID: 1}, {SnapshotID: 2}},
	}
	fetch := func(ref models.SnapshotRef) (*models.Snapshot, error) {
		return snapshots[ref.SnapshotID], nil
	}
	return p, fetch
}

func TestSummarizeSumsMemberENPVs(t *testing.T) {
	p, fetch := twoMemberPortfolio()
	summary, err := Summarize(p, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(summary.Members))
	}
	want := summary.Members[0].ENPV + summary.Members[1].ENPV
	if math.Abs(summary.TotalENPV-want) > 1e-6 {
		t.Errorf("expected total enpv %f, got %f", want, summary.TotalENPV)
	}
}

func TestSummarizeSkipsKilledMember(t *testing.T) {
	p, fetch := twoMemberPortfolio()
	p.Overrides = []models.Override{{Target: 2, Kind: models.OverrideKill}}

	summary, err := Summarize(p, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Members) != 1 {
		t.Fatalf("expected 1 member after kill, got %d", len(summary.Members))
	}
}

func TestRunCorrelatedMonteCarloIndependentVsFullyCorrelated(t *testing.T) {
	// Testable Property 8: rho=0 and rho=1 are the correlation limits.
	p, fetch := twoMemberPortfolio()
	seed := int64(99)

	indep, err := RunCorrelatedMonteCarlo(p, fetch, 2000, 0.0, &seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full, err := RunCorrelatedMonteCarlo(p, fetch, 2000, 1.0, &seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if full.Std <= indep.Std {
		t.Errorf("expected fully correlated portfolio to have higher variance than independent, got full.std=%f indep.std=%f", full.Std, indep.Std)
	}
}

func TestRunCorrelatedMonteCarloRejectsInvalidRho(t *testing.T) {
	p, fetch := twoMemberPortfolio()
	_, err := RunCorrelatedMonteCarlo(p, fetch, 100, 1.5, nil)
	if err == nil {
		t.Fatal("expected ConfigError for rho outside [0,1]")
	}
}

func TestRunCorrelatedMonteCarloSeedDeterminism(t *testing.T) {
	p, fetch := twoMemberPortfolio()
	seed := int64(5)

	r1, err := RunCorrelatedMonteCarlo(p, fetch, 500, 0.5, &seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := RunCorrelatedMonteCarlo(p, fetch, 500, 0.5, &seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Mean != r2.Mean || r1.Std != r2.Std {
		t.Errorf("expected identical stats for same seed, got %+v vs %+v", r1, r2)
	}
}
