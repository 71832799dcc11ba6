// Command valuation-demo wires the full rNPV engine end-to-end: it builds
// a sample asset snapshot, runs the deterministic evaluator, the Monte
// Carlo sampler, and a two-asset portfolio aggregation, printing tagged
// progress lines the way the teacher's cmd/ entry points do. Storage
// defaults to an in-memory store; setting DATABASE_URL switches it to
// Postgres.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"rnpvengine/pkg/core/config"
	"rnpvengine/pkg/core/montecarlo"
	"rnpvengine/pkg/core/overrides"
	"rnpvengine/pkg/core/portfolio"
	"rnpvengine/pkg/core/store"
	"rnpvengine/pkg/core/valuation"
	"rnpvengine/pkg/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("[ENGINE] no .env file found, continuing with process environment")
	}

	cfg, err := config.Load("config/engine.yaml")
	if err != nil {
		fmt.Printf("[ENGINE] failed to load engine config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[ENGINE] loaded config: deterministic_tail=%d montecarlo_tail=%d\n",
		cfg.DeterministicTailYears, cfg.MonteCarloTailYears)

	overrides.Configure(overrides.AccelerationParams{
		Alpha:                cfg.Acceleration.Alpha,
		MaxBudgetMultiplier:  cfg.Acceleration.MaxBudgetMultiplier,
		MaxTimelineReduction: cfg.Acceleration.MaxTimelineReduction,
	})

	ctx := context.Background()
	dataStore := openStore(ctx)

	assetA := sampleSnapshot(1, "Compound-A", 1000)
	assetB := sampleSnapshot(2, "Compound-B", 650)
	if err := dataStore.SaveSnapshot(ctx, assetA); err != nil {
		fmt.Printf("[ENGINE] failed to seed snapshot: %v\n", err)
		os.Exit(1)
	}
	if err := dataStore.SaveSnapshot(ctx, assetB); err != nil {
		fmt.Printf("[ENGINE] failed to seed snapshot: %v\n", err)
		os.Exit(1)
	}

	loadedA, err := dataStore.LoadSnapshot(ctx, assetA.ID)
	if err != nil {
		fmt.Printf("[ENGINE] failed to load snapshot: %v\n", err)
		os.Exit(1)
	}

	result, err := valuation.Evaluate(loadedA, cfg.DeterministicTailYears)
	if err != nil {
		fmt.Printf("[ENGINE] deterministic evaluation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[ENGINE] %s: enpv=%.1f terminal_pos=%.3f rows=%d\n",
		"Compound-A", result.ENPV, result.TerminalPoS, len(result.Rows))

	if err := dataStore.SaveCashflows(ctx, assetA.ID, result.Rows); err != nil {
		fmt.Printf("[ENGINE] failed to save cashflows: %v\n", err)
		os.Exit(1)
	}

	mcResult, err := montecarlo.Run(loadedA, loadedA.EffectiveMCConfig())
	if err != nil {
		fmt.Printf("[MC] simulation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[MC] n=%d mean=%.1f median=%.1f p5=%.1f p95=%.1f prob_positive=%.2f\n",
		mcResult.NIterations, mcResult.Mean, mcResult.Median, mcResult.P5, mcResult.P95, mcResult.ProbPositive)

	portfolioMembers := []models.SnapshotRef{{SnapshotID: assetA.ID}, {SnapshotID: assetB.ID}}
	portfolioObj := &models.Portfolio{ID: 1, Name: "Demo portfolio", Members: portfolioMembers}
	if err := dataStore.SavePortfolio(ctx, portfolioObj); err != nil {
		fmt.Printf("[PORTFOLIO] failed to seed portfolio: %v\n", err)
		os.Exit(1)
	}

	loadedPortfolio, err := dataStore.LoadPortfolio(ctx, portfolioObj.ID)
	if err != nil {
		fmt.Printf("[PORTFOLIO] failed to load portfolio: %v\n", err)
		os.Exit(1)
	}

	fetch := func(ref models.SnapshotRef) (*models.Snapshot, error) {
		return dataStore.LoadSnapshot(ctx, ref.SnapshotID)
	}

	summary, err := portfolio.Summarize(loadedPortfolio, fetch)
	if err != nil {
		fmt.Printf("[PORTFOLIO] summary failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[PORTFOLIO] total_enpv=%.1f members=%d years=%d\n",
		summary.TotalENPV, len(summary.Members), len(summary.Yearly))

	seed := int64(42)
	correlated, err := portfolio.RunCorrelatedMonteCarlo(loadedPortfolio, fetch, 5000, 0.6, &seed)
	if err != nil {
		fmt.Printf("[PORTFOLIO] correlated mc failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[PORTFOLIO] correlated mc: mean=%.1f std=%.1f prob_positive=%.2f\n",
		correlated.Mean, correlated.Std, correlated.ProbPositive)
}

// openStore picks a Postgres-backed store when DATABASE_URL is set,
// falling back to the in-memory store for local runs without a database.
func openStore(ctx context.Context) store.SeedStore {
	if os.Getenv("DATABASE_URL") == "" {
		fmt.Println("[ENGINE] no DATABASE_URL set, using in-memory store")
		return store.NewMemoryStore()
	}
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[ENGINE] failed to init database pool: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[ENGINE] connected to Postgres store")
	return store.NewPostgresStore(store.GetPool())
}

func sampleSnapshot(id int, name string, peakSales float64) *models.Snapshot {
	_ = name
	return &models.Snapshot{
		ID:                id,
		AssetID:           id,
		Version:           1,
		ValuationYear:     2025,
		HorizonYears:      20,
		WaccRD:            0.10,
		UptakeCurve:       models.CurveLogistic,
		TimeToPeakYears:   5,
		GenericErosionPct: 0.80,
		CogsPct:           0.20,
		SgaPct:            0.25,
		TaxRate:           0.21,
		DiscountRate:      0.10,
		PeakSalesUSDm:     peakSales,
		LaunchYear:        2030,
		PatentExpiryYear:  2040,
		PhaseInputs: []models.PhaseInput{
			{PhaseName: "P2", ProbabilityOfSuccess: 0.40, DurationYears: 3, StartYear: 2025},
			{PhaseName: "P3", ProbabilityOfSuccess: 0.55, DurationYears: 3, StartYear: 2028},
			{PhaseName: "Filing", ProbabilityOfSuccess: 0.90, DurationYears: 1, StartYear: 2031},
			{PhaseName: "Approval", ProbabilityOfSuccess: 0.95, DurationYears: 1, StartYear: 2032},
		},
		RDCosts: []models.RDCost{
			{Year: 2025, CostUSDm: 40},
			{Year: 2026, CostUSDm: 45},
			{Year: 2028, CostUSDm: 80},
			{Year: 2031, CostUSDm: 15},
		},
		Active: true,
	}
}
