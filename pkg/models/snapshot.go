package models

// UptakeCurve selects the launch revenue ramp shape used by the revenue
// curve library (C1).
type UptakeCurve string

const (
	CurveLinear   UptakeCurve = "linear"
	CurveLogistic UptakeCurve = "logistic"
)

// PhaseInput is one R&D phase: its name, probability of success, duration,
// and calendar start year. Phases are ordered by StartYear; the product of
// every phase's PoS is the terminal PoS, and the product restricted to
// phases with StartYear <= y is the cumulative PoS at year y (C3).
type PhaseInput struct {
	PhaseName            string
	ProbabilityOfSuccess float64
	DurationYears        float64
	StartYear            int
}

// RDCost is non-negative R&D spend attributed to a single calendar year.
type RDCost struct {
	Year       int
	CostUSDm   float64
}

// CommercialRow is an optional caller-supplied commercial P&L row for one
// year. When present for a given year it overrides C1's modelled revenue
// for that year entirely; when absent, C1 generates revenue from the
// snapshot's aggregate uptake-curve parameters.
type CommercialRow struct {
	Year                 int
	GrossSalesUSDm       float64
	CogsUSDm             float64
	SgaUSDm               float64
	OperatingProfitUSDm  float64
	TaxUSDm               float64
	NetCashflowUSDm      float64
}

// MCConfig parameterizes the Monte Carlo sampler (C6). A zero-value
// MCConfig is not usable directly — DefaultMCConfig() supplies the
// fallback the spec requires when a snapshot carries none.
type MCConfig struct {
	NIterations         int      `yaml:"n_iterations"`
	PeakSalesStdPct     float64  `yaml:"peak_sales_std_pct"`
	LaunchDelayStdYears float64  `yaml:"launch_delay_std_years"`
	PosVariationPct     float64  `yaml:"pos_variation_pct"`
	Seed                *int64   `yaml:"seed,omitempty"`
}

// DefaultMCConfig returns the engine-contract fallback used whenever a
// snapshot has no MCConfig attached (§4.4 Failure semantics).
func DefaultMCConfig() MCConfig {
	return MCConfig{
		NIterations:         10000,
		PeakSalesStdPct:     0.20,
		LaunchDelayStdYears: 1.0,
		PosVariationPct:     0.10,
		Seed:                nil,
	}
}

// WhatIfLevers is an evaluation-time "what-if" lever set. Applying it
// never mutates the source Snapshot (§4.5).
type WhatIfLevers struct {
	PeakSalesMultiplier   float64 // e.g. 1.20 for +20%
	LaunchDelayYears      int
	PosOverride           map[string]float64 // phase_name -> PoS
	DiscountRateOverride  *float64
	CogsPctOverride       *float64
	SgaPctOverride        *float64
}

// CashflowRow is one engine output row for a single calendar year.
type CashflowRow struct {
	Year             int
	RDCost           float64
	CommercialCF     float64
	NetCashflow      float64
	CumulativePoS    float64
	RiskAdjustedCF   float64
	DiscountFactor   float64
	PV               float64
	CumulativeNPV    float64
}

// Snapshot is the complete valuation input for one Asset at one version.
// It owns its PhaseInputs, RDCosts, CommercialRows, MCConfig and
// WhatIfLevers exclusively; CashflowRows are derived output, not primary
// input, and are never read by the engine.
type Snapshot struct {
	ID               int
	AssetID          int
	Version          int

	ValuationYear      int
	HorizonYears       int
	WaccRD             float64
	ApprovalDate       float64 // fractional year

	UptakeCurve        UptakeCurve
	TimeToPeakYears    float64
	GenericErosionPct  float64
	CogsPct            float64
	SgaPct             float64
	TaxRate            float64
	DiscountRate       float64
	PeakSalesUSDm      float64
	LaunchYear         int
	PatentExpiryYear   int

	PhaseInputs      []PhaseInput
	RDCosts          []RDCost
	CommercialRows   []CommercialRow

	MCConfig      *MCConfig
	WhatIfLevers  *WhatIfLevers

	// Active is set to true on every member ApplyPortfolioOverrides
	// returns; a `kill` override drops the member from that list rather
	// than clearing Active. It never affects standalone evaluation.
	Active bool
}

// Clone returns a deep functional copy of the snapshot. The override
// applicator (C5) always works on a Clone, never on the original, so
// repeated evaluations of the source Snapshot remain unaffected by any
// override pipeline run against the copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s

	cp.PhaseInputs = make([]PhaseInput, len(s.PhaseInputs))
	copy(cp.PhaseInputs, s.PhaseInputs)

	cp.RDCosts = make([]RDCost, len(s.RDCosts))
	copy(cp.RDCosts, s.RDCosts)

	cp.CommercialRows = make([]CommercialRow, len(s.CommercialRows))
	copy(cp.CommercialRows, s.CommercialRows)

	if s.MCConfig != nil {
		mc := *s.MCConfig
		if s.MCConfig.Seed != nil {
			seed := *s.MCConfig.Seed
			mc.Seed = &seed
		}
		cp.MCConfig = &mc
	}

	if s.WhatIfLevers != nil {
		wl := *s.WhatIfLevers
		if s.WhatIfLevers.PosOverride != nil {
			wl.PosOverride = make(map[string]float64, len(s.WhatIfLevers.PosOverride))
			for k, v := range s.WhatIfLevers.PosOverride {
				wl.PosOverride[k] = v
			}
		}
		if s.WhatIfLevers.DiscountRateOverride != nil {
			v := *s.WhatIfLevers.DiscountRateOverride
			wl.DiscountRateOverride = &v
		}
		if s.WhatIfLevers.CogsPctOverride != nil {
			v := *s.WhatIfLevers.CogsPctOverride
			wl.CogsPctOverride = &v
		}
		if s.WhatIfLevers.SgaPctOverride != nil {
			v := *s.WhatIfLevers.SgaPctOverride
			wl.SgaPctOverride = &v
		}
		cp.WhatIfLevers = &wl
	}

	return &cp
}

// Validate checks the invariants of §3: launch_year <= patent_expiry_year,
// time_to_peak_years >= 1, every rate in [0, 1], and horizon_years
// consistent with the patent window. Returns a *ConfigError on violation.
func (s *Snapshot) Validate() error {
	if s.HorizonYears <= 0 {
		return NewConfigError("horizon_years must be positive, got %d", s.HorizonYears)
	}
	if s.LaunchYear > s.PatentExpiryYear {
		return NewConfigError("launch_year (%d) must not exceed patent_expiry_year (%d)", s.LaunchYear, s.PatentExpiryYear)
	}
	if s.TimeToPeakYears < 1 {
		return NewConfigError("time_to_peak_years must be >= 1, got %g", s.TimeToPeakYears)
	}
	if s.HorizonYears < s.PatentExpiryYear-s.ValuationYear {
		return NewConfigError("horizon_years (%d) shorter than patent window (%d)", s.HorizonYears, s.PatentExpiryYear-s.ValuationYear)
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"wacc_rd", s.WaccRD},
		{"generic_erosion_pct", s.GenericErosionPct},
		{"cogs_pct", s.CogsPct},
		{"sga_pct", s.SgaPct},
		{"tax_rate", s.TaxRate},
		{"discount_rate", s.DiscountRate},
	} {
		if rate.value < 0 || rate.value > 1 {
			return NewConfigError("%s must be in [0, 1], got %f", rate.name, rate.value)
		}
	}
	return nil
}

// RDCostAt returns the R&D cost booked for the given year, or 0 if none.
func (s *Snapshot) RDCostAt(year int) float64 {
	for _, rc := range s.RDCosts {
		if rc.Year == year {
			return rc.CostUSDm
		}
	}
	return 0
}

// CommercialRowAt returns the caller-supplied commercial row for the given
// year, if one was provided.
func (s *Snapshot) CommercialRowAt(year int) (CommercialRow, bool) {
	for _, cr := range s.CommercialRows {
		if cr.Year == year {
			return cr, true
		}
	}
	return CommercialRow{}, false
}

// EffectiveMCConfig returns the snapshot's MCConfig, falling back to
// DefaultMCConfig() when none is attached (§4.4).
func (s *Snapshot) EffectiveMCConfig() MCConfig {
	if s.MCConfig != nil {
		return *s.MCConfig
	}
	return DefaultMCConfig()
}
