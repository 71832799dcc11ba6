package valuation

import (
	"math"
	"testing"

	"rnpvengine/pkg/models"
)

func s1Snapshot() *models.Snapshot {
	return &models.Snapshot{
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

func TestEvaluateS1Smoke(t *testing.T) {
	result, err := Evaluate(s1Snapshot(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.TerminalPoS-0.4) > 1e-9 {
		t.Errorf("expected terminal_pos 0.4, got %f", result.TerminalPoS)
	}
	if result.ENPV <= 0 {
		t.Errorf("expected positive enpv, got %f", result.ENPV)
	}

	row2030 := mustFindRow(t, result.Rows, 2030)
	if row2030.CommercialCF != 0 {
		t.Errorf("expected 0 commercial cf at launch year (linear y=0), got %f", row2030.CommercialCF)
	}

	row2033 := mustFindRow(t, result.Rows, 2033)
	// revenue = 600 at 2033; opProfit = 600*(1-0.2-0.25) = 330; tax = 330*0.21 = 69.3; cf = 260.7
	wantCF := 600.0 * (1 - 0.20 - 0.25) * (1 - 0.21)
	if math.Abs(row2033.CommercialCF-wantCF) > 1e-6 {
		t.Errorf("expected commercial cf %f at 2033, got %f", wantCF, row2033.CommercialCF)
	}
}

func TestEvaluateS2FullChain(t *testing.T) {
	snap := s1Snapshot()
	snap.PhaseInputs = []models.PhaseInput{
		{PhaseName: "P2", ProbabilityOfSuccess: 0.40, StartYear: 2025},
		{PhaseName: "P3", ProbabilityOfSuccess: 0.55, StartYear: 2028},
		{PhaseName: "Filing", ProbabilityOfSuccess: 0.90, StartYear: 2031},
		{PhaseName: "Approval", ProbabilityOfSuccess: 0.95, StartYear: 2032},
	}

	result, err := Evaluate(snap, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTerminal := 0.40 * 0.55 * 0.90 * 0.95
	if math.Abs(result.TerminalPoS-wantTerminal) > 1e-9 {
		t.Errorf("expected terminal_pos %f, got %f", wantTerminal, result.TerminalPoS)
	}

	// Testable Property 3: unadjusted NPV * terminal PoS == risk-adjusted NPV.
	recombined := result.UnadjustedNPV * result.TerminalPoS
	if math.Abs(recombined-result.ENPV) > 1e-6*math.Max(1, math.Abs(result.ENPV)) {
		t.Errorf("expected unadjusted*terminal ~= enpv, got %f vs %f", recombined, result.ENPV)
	}
}

func TestEvaluateS3LOEBoundary(t *testing.T) {
	result, err := Evaluate(s1Snapshot(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row2040 := mustFindRow(t, result.Rows, 2040)
	wantRev2040 := 200.0 * (1 - 0.20 - 0.25) * (1 - 0.21)
	if math.Abs(row2040.CommercialCF-wantRev2040) > 1e-6 {
		t.Errorf("expected commercial cf %f at 2040, got %f", wantRev2040, row2040.CommercialCF)
	}

	row2042 := mustFindRow(t, result.Rows, 2042)
	wantRev2042 := 50.0 * (1 - 0.20 - 0.25) * (1 - 0.21)
	if math.Abs(row2042.CommercialCF-wantRev2042) > 1e-6 {
		t.Errorf("expected commercial cf %f at 2042, got %f", wantRev2042, row2042.CommercialCF)
	}
}

func TestEvaluatePurity(t *testing.T) {
	// Testable Property 1: two runs yield element-wise equal rows.
	snap := s1Snapshot()
	r1, err := Evaluate(snap, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := Evaluate(snap, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r1.Rows) != len(r2.Rows) {
		t.Fatalf("row count differs: %d vs %d", len(r1.Rows), len(r2.Rows))
	}
	for i := range r1.Rows {
		if r1.Rows[i] != r2.Rows[i] {
			t.Errorf("row %d differs: %+v vs %+v", i, r1.Rows[i], r2.Rows[i])
		}
	}
}

func TestEvaluateRowsOrderedByYear(t *testing.T) {
	result, err := Evaluate(s1Snapshot(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(result.Rows); i++ {
		if result.Rows[i].Year <= result.Rows[i-1].Year {
			t.Fatalf("rows not strictly increasing by year at index %d", i)
		}
	}
}

func TestEvaluateMonotoneRiskAdjustment(t *testing.T) {
	// Testable Property 4: higher PoS never decreases rNPV.
	low := s1Snapshot()
	high := s1Snapshot()
	high.PhaseInputs = []models.PhaseInput{{PhaseName: "P2", ProbabilityOfSuccess: 0.8, StartYear: 2025}}

	rLow, err := Evaluate(low, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rHigh, err := Evaluate(high, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rHigh.ENPV < rLow.ENPV {
		t.Errorf("expected higher PoS to not decrease rNPV: low=%f high=%f", rLow.ENPV, rHigh.ENPV)
	}
}

func TestEvaluateMonotonePeakSales(t *testing.T) {
	// Testable Property 5.
	low := s1Snapshot()
	high := s1Snapshot()
	high.PeakSalesUSDm = 2000

	rLow, err := Evaluate(low, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rHigh, err := Evaluate(high, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rHigh.ENPV < rLow.ENPV {
		t.Errorf("expected higher peak sales to not decrease rNPV: low=%f high=%f", rLow.ENPV, rHigh.ENPV)
	}
}

func TestEvaluateZeroHorizonIsConfigError(t *testing.T) {
	snap := s1Snapshot()
	snap.HorizonYears = 0
	_, err := Evaluate(snap, 3)
	if err == nil {
		t.Fatal("expected ConfigError for non-positive horizon_years")
	}
	if _, ok := err.(*models.ConfigError); !ok {
		t.Errorf("expected *models.ConfigError, got %T", err)
	}
}

func TestEvaluateZeroTerminalPoSProducesWarning(t *testing.T) {
	snap := s1Snapshot()
	snap.PhaseInputs = []models.PhaseInput{{PhaseName: "P1", ProbabilityOfSuccess: 0, StartYear: 2025}}
	result, err := Evaluate(snap, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UnadjustedNPV != 0 {
		t.Errorf("expected unadjusted NPV substituted with 0, got %f", result.UnadjustedNPV)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one numeric warning, got %d", len(result.Warnings))
	}
}

func mustFindRow(t *testing.T, rows []models.CashflowRow, year int) models.CashflowRow {
	t.Helper()
	for _, r := range rows {
		if r.Year == year {
			return r
		}
	}
	t.Fatalf("no row found for year %d", year)
	return models.CashflowRow{}
}
