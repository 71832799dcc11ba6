package overrides

import (
	"hash/fnv"

	"github.com/google/uuid"

	"rnpvengine/pkg/models"
)

// EffectivePortfolioMember is one member of a portfolio after
// portfolio-scoped overrides have run: either a reference to an
// existing snapshot version, or a synthetic snapshot attached for this
// evaluation only (add_hypothetical, add_bd_deal).
type EffectivePortfolioMember struct {
	SnapshotID int
	Snapshot   *models.Snapshot
	Synthetic  bool
}

// ApplyPortfolioOverrides resolves the portfolio-scoped override kinds
// (kill, add_hypothetical, add_bd_deal) against a portfolio's member
// snapshots. fetch resolves a SnapshotRef to its Snapshot; the portfolio
// and its referenced snapshots are never mutated.
func ApplyPortfolioOverrides(portfolio *models.Portfolio, fetch func(models.SnapshotRef) (*models.Snapshot, error)) ([]EffectivePortfolioMember, error) {
	killed := make(map[int]bool)
	for _, o := range portfolio.Overrides {
		if o.Kind == models.OverrideKill {
			killed[o.Target] = true
		}
	}

	members := make([]EffectivePortfolioMember, 0, len(portfolio.Members))
	for _, ref := range portfolio.Members {
		if killed[ref.SnapshotID] {
			continue
		}
		snap, err := fetch(ref)
		if err != nil {
			return nil, err
		}
		cp := snap.Clone()
		cp.Active = true
		members = append(members, EffectivePortfolioMember{SnapshotID: ref.SnapshotID, Snapshot: cp})
	}

	for _, o := range portfolio.Overrides {
		switch o.Kind {
		case models.OverrideAddHypothetical, models.OverrideAddBDDeal:
			if o.Snapshot == nil {
				return nil, models.NewConfigError("%s requires an attached synthetic snapshot", o.Kind)
			}
			synth := o.Snapshot.Clone()
			synth.Active = true
			if synth.ID == 0 {
				synth.ID = syntheticSnapshotID()
			}
			members = append(members, EffectivePortfolioMember{SnapshotID: synth.ID, Snapshot: synth, Synthetic: true})
		}
	}

	return members, nil
}

// syntheticSnapshotID mints an id for an add_hypothetical/add_bd_deal
// snapshot that arrived with no id of its own, so it doesn't collide with
// a real snapshot id in caller-facing results. Negative so real (positive)
// snapshot ids are never shadowed.
func syntheticSnapshotID() int {
	h := fnv.New32a()
	h.Write([]byte(uuid.New().String()))
	return -int(h.Sum32() & 0x7fffffff)
}
