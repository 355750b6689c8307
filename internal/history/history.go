// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives completed research runs in a local SQLite
// database. The archive is write-after: a run never reads it, so the
// pipeline itself stays stateless.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

// DefaultDBPath is the archive location when no path is configured.
const DefaultDBPath = "research-agent.db"

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			prefer_authoritative INTEGER NOT NULL,
			summary TEXT,
			generated_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			data_point TEXT NOT NULL,
			value TEXT NOT NULL,
			source_url TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun archives a completed report and returns the assigned run ID.
// Findings are stored with their table position so row order survives.
func (s *Store) SaveRun(ctx context.Context, report *types.Report) (string, error) {
	id := report.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	prefer := 0
	if report.Request.PreferAuthoritative {
		prefer = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, prefer_authoritative, summary, generated_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, report.Request.Topic, prefer, report.Summary,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, position, data_point, value, source_url)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range report.Findings {
		if _, err := stmt.ExecContext(ctx, id, i, f.DataPoint, f.Value, f.SourceURL); err != nil {
			return "", fmt.Errorf("inserting finding %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// RunInfo is one row of the archive listing.
type RunInfo struct {
	ID          string
	Topic       string
	GeneratedAt time.Time
	Points      int
	Resolved    int
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.generated_at,
			count(f.run_id),
			sum(CASE WHEN f.source_url != ? THEN 1 ELSE 0 END)
		 FROM runs r LEFT JOIN findings f ON f.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.generated_at DESC`, types.NoSource)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var generatedAt string
		var resolved sql.NullInt64
		if err := rows.Scan(&info.ID, &info.Topic, &generatedAt, &info.Points, &resolved); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, generatedAt); parseErr == nil {
			info.GeneratedAt = t
		}
		info.Resolved = int(resolved.Int64)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetRun loads one archived run as a full report. Run IDs may be
// abbreviated to a unique prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*types.Report, error) {
	var report types.Report
	var prefer int
	var generatedAt string
	var durationMS int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, prefer_authoritative, summary, generated_at, duration_ms
		 FROM runs WHERE id = ? OR id LIKE ? || '%'`, id, id,
	).Scan(&report.ID, &report.Request.Topic, &prefer, &report.Summary, &generatedAt, &durationMS)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	report.Request.PreferAuthoritative = prefer != 0
	if t, parseErr := time.Parse(time.RFC3339Nano, generatedAt); parseErr == nil {
		report.GeneratedAt = t
	}
	report.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := s.db.QueryContext(ctx,
		`SELECT data_point, value, source_url FROM findings
		 WHERE run_id = ? ORDER BY position`, report.ID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f types.Finding
		if err := rows.Scan(&f.DataPoint, &f.Value, &f.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		report.Findings = append(report.Findings, f)
		report.Request.DataPoints = append(report.Request.DataPoints, f.DataPoint)
	}
	return &report, rows.Err()
}
