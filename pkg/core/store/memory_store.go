package store

import (
	"context"
	"sync"

	"rnpvengine/pkg/models"
)

// MemoryStore is an in-process SnapshotStore/PortfolioStore backed by
// plain maps, for tests and for callers that don't need Postgres.
type MemoryStore struct {
	mu         sync.RWMutex
	snapshots  map[int]*models.Snapshot
	portfolios map[int]*models.Portfolio
	cashflows  map[int][]models.CashflowRow
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:  make(map[int]*models.Snapshot),
		portfolios: make(map[int]*models.Portfolio),
		cashflows:  make(map[int][]models.CashflowRow),
	}
}

// SaveSnapshot registers a snapshot for later LoadSnapshot calls. Signature
// matches PostgresStore.SaveSnapshot so callers can seed either backend
// through the same SeedStore interface.
func (s *MemoryStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.ID] = snap
	return nil
}

// SavePortfolio registers a portfolio for later LoadPortfolio calls.
func (s *MemoryStore) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios[p.ID] = p
	return nil
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context, id int) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, models.NewNotFoundError("snapshot", id)
	}
	return snap.Clone(), nil
}

func (s *MemoryStore) SaveCashflows(ctx context.Context, snapshotID int, rows []models.CashflowRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[snapshotID]; !ok {
		return models.NewNotFoundError("snapshot", snapshotID)
	}
	cp := make([]models.CashflowRow, len(rows))
	copy(cp, rows)
	s.cashflows[snapshotID] = cp
	return nil
}

func (s *MemoryStore) LoadPortfolio(ctx context.Context, id int) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[id]
	if !ok {
		return nil, models.NewNotFoundError("portfolio", id)
	}
	cp := *p
	cp.Members = append([]models.SnapshotRef(nil), p.Members...)
	cp.Overrides = append([]models.Override(nil), p.Overrides...)
	return &cp, nil
}
