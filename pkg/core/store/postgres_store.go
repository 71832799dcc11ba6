package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rnpvengine/pkg/models"
)

// PostgresStore implements SnapshotStore and PortfolioStore against a
// pgxpool connection, persisting each snapshot/portfolio as a JSONB blob
// keyed by id, with a snapshot's Version also stored in its own version
// column (portfolios have none) — the same upsert shape
// the teacher's analysis repository uses for its financial_analysis
// table.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS snapshots (
//	  id INTEGER PRIMARY KEY,
//	  version INTEGER NOT NULL,
//	  body_json JSONB NOT NULL
//	);
//	CREATE TABLE IF NOT EXISTS cashflows (
//	  snapshot_id INTEGER NOT NULL,
//	  year INTEGER NOT NULL,
//	  body_json JSONB NOT NULL,
//	  PRIMARY KEY (snapshot_id, year)
//	);
//	CREATE TABLE IF NOT EXISTS portfolios (
//	  id INTEGER PRIMARY KEY,
//	  body_json JSONB NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a pgxpool.Pool (typically store.GetPool()).
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context, id int) (*models.Snapshot, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := s.pool.QueryRow(ctx, `SELECT body_json FROM snapshots WHERE id = $1`, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.NewNotFoundError("snapshot", id)
		}
		return nil, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(jsonData, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %d: %w", id, err)
	}
	return &snap, nil
}

func (s *PostgresStore) SaveCashflows(ctx context.Context, snapshotID int, rows []models.CashflowRow) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cashflow transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cashflows WHERE snapshot_id = $1`, snapshotID); err != nil {
		return fmt.Errorf("failed to clear existing cashflows for snapshot %d: %w", snapshotID, err)
	}

	for _, row := range rows {
		jsonData, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal cashflow row for year %d: %w", row.Year, err)
		}

		query := `
			INSERT INTO cashflows (snapshot_id, year, body_json)
			VALUES ($1, $2, $3)
			ON CONFLICT (snapshot_id, year)
			DO UPDATE SET body_json = EXCLUDED.body_json;
		`
		if _, err := tx.Exec(ctx, query, snapshotID, row.Year, jsonData); err != nil {
			return fmt.Errorf("failed to save cashflow row for year %d: %w", row.Year, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cashflow transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %d: %w", snap.ID, err)
	}

	query := `
		INSERT INTO snapshots (id, version, body_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			version = EXCLUDED.version,
			body_json = EXCLUDED.body_json;
	`
	_, err = s.pool.Exec(ctx, query, snap.ID, snap.Version, jsonData)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %d: %w", snap.ID, err)
	}
	return nil
}

func (s *PostgresStore) LoadPortfolio(ctx context.Context, id int) (*models.Portfolio, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := s.pool.QueryRow(ctx, `SELECT body_json FROM portfolios WHERE id = $1`, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.NewNotFoundError("portfolio", id)
		}
		return nil, fmt.Errorf("failed to load portfolio %d: %w", id, err)
	}

	var p models.Portfolio
	if err := json.Unmarshal(jsonData, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal portfolio %d: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresStore) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio %d: %w", p.ID, err)
	}

	query := `
		INSERT INTO portfolios (id, body_json)
		VALUES ($1, $2)
		ON CONFLICT (id)
		DO UPDATE SET body_json = EXCLUDED.body_json;
	`
	_, err = s.pool.Exec(ctx, query, p.ID, jsonData)
	if err != nil {
		return fmt.Errorf("failed to save portfolio %d: %w", p.ID, err)
	}
	return nil
}
