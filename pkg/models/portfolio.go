package models

// OverrideKind tags the scenario-lever variants an Override can carry.
// Unknown kinds are a ConfigError — §9's Design Note treats Override as a
// tagged sum, not a loosely-typed record.
type OverrideKind string

const (
	OverrideKill             OverrideKind = "kill"
	OverrideAccelerate       OverrideKind = "accelerate"
	OverrideBudgetRealloc    OverrideKind = "budget_realloc"
	OverridePhaseDelay       OverrideKind = "phase_delay"
	OverrideLaunchDelay      OverrideKind = "launch_delay"
	OverridePeakSalesChange  OverrideKind = "peak_sales_change"
	OverrideSROverride       OverrideKind = "sr_override"
	OverrideTimeToPeakChange OverrideKind = "time_to_peak_change"
	OverrideAddHypothetical  OverrideKind = "add_hypothetical"
	OverrideAddBDDeal        OverrideKind = "add_bd_deal"
)

// Override is one scenario-lever instruction. Target identifies the
// snapshot (or portfolio member) it applies to; Phase is populated only
// for kinds that need it (sr_override, accelerate; budget_realloc accepts
// it but does not consult it);
// Snapshot carries a full synthetic snapshot for add_hypothetical and
// add_bd_deal. Applying an Override never edits the source snapshot or
// portfolio (§4.5).
type Override struct {
	Target      int // snapshot id, or portfolio-member snapshot id for kill/add_*
	Kind        OverrideKind
	Value       float64
	Phase       *string
	Description string

	// BudgetMultiplier pairs with `accelerate` when a budget uplift is also
	// modelled (§4.5's concave timeline-reduction curve).
	BudgetMultiplier *float64

	// Snapshot carries the synthetic asset for add_hypothetical/add_bd_deal.
	Snapshot *Snapshot
}

// SnapshotRef pins a Portfolio member to a specific Snapshot version so
// the portfolio's value is reproducible.
type SnapshotRef struct {
	SnapshotID int
	Version    int
}

// Portfolio is an ordered collection of Snapshot references plus the
// scenario overrides that realise "what-if" questions at the portfolio
// level. Referenced Snapshots are shared, not owned.
type Portfolio struct {
	ID        int
	Name      string
	Members   []SnapshotRef
	Overrides []Override
}
