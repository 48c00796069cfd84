package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"shopee-analyzer/models"
)

// AnalysisSnapshot is one stored analysis result row.
type AnalysisSnapshot struct {
	ID            int64
	Category      string
	TotalListings int
	DataSource    string
	Result        json.RawMessage
	CreatedAt     time.Time
}

// PostgresStore persists analysis snapshots to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id             SERIAL PRIMARY KEY,
			category       TEXT        NOT NULL,
			total_listings INTEGER     NOT NULL,
			data_source    VARCHAR(50) NOT NULL,
			result         JSONB       NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_category   ON analysis_snapshots(category);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON analysis_snapshots(created_at);
	`)
	return err
}

// SaveAnalysis stores one finished analysis result as a snapshot row.
func (ps *PostgresStore) SaveAnalysis(result *models.CategoryAnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("postgres: marshal result: %w", err)
	}

	_, err = ps.db.Exec(`
		INSERT INTO analysis_snapshots (category, total_listings, data_source, result)
		VALUES ($1, $2, $3, $4)
	`, result.Category, result.TotalListings, result.DataSource, payload)
	if err != nil {
		return fmt.Errorf("postgres: insert snapshot: %w", err)
	}
	return nil
}

// RecentAnalyses retrieves the newest snapshots for a category.
func (ps *PostgresStore) RecentAnalyses(category string, limit int) ([]*AnalysisSnapshot, error) {
	rows, err := ps.db.Query(`
		SELECT id, category, total_listings, data_source, result, created_at
		FROM analysis_snapshots
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent analyses: %w", err)
	}
	defer rows.Close()

	var snapshots []*AnalysisSnapshot
	for rows.Next() {
		s := &AnalysisSnapshot{}
		if err := rows.Scan(
			&s.ID, &s.Category, &s.TotalListings, &s.DataSource, &s.Result, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
