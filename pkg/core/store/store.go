package store

import (
	"context"

	"rnpvengine/pkg/models"
)

// SnapshotStore is the engine's storage adapter for snapshots and their
// derived cash-flow rows (§6). LoadSnapshot never returns a partially
// populated Snapshot — it fails with *models.NotFoundError instead.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, id int) (*models.Snapshot, error)
	SaveCashflows(ctx context.Context, snapshotID int, rows []models.CashflowRow) error
}

// PortfolioStore is the engine's storage adapter for portfolios.
type PortfolioStore interface {
	LoadPortfolio(ctx context.Context, id int) (*models.Portfolio, error)
}

// SeedStore is the write side both MemoryStore and PostgresStore implement,
// letting a caller populate either backend through one interface before
// running the read-only SnapshotStore/PortfolioStore operations against it.
type SeedStore interface {
	SnapshotStore
	PortfolioStore
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
	SavePortfolio(ctx context.Context, p *models.Portfolio) error
}
