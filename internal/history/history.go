// Package history keeps a SQLite record of past runs and their evictions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raoulx24/timewarp/internal/eviction"
)

// Run is one stored run summary.
type Run struct {
	ID         string
	StartedAt  time.Time
	Mode       string
	Snapshots  int
	Threshold  int64
	Evicted    int
	Failed     int
	BytesFreed int64
	Duration   time.Duration
}

// Eviction is one stored per-snapshot result.
type Eviction struct {
	RunID    string
	Snapshot string
	Size     int64
	Status   string
	Detail   string
}

// Store is the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  INTEGER NOT NULL,
		mode        TEXT NOT NULL,
		snapshots   INTEGER NOT NULL,
		threshold   INTEGER NOT NULL,
		evicted     INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		bytes_freed INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS evictions (
		run_id   TEXT NOT NULL REFERENCES runs(id),
		snapshot TEXT NOT NULL,
		size     INTEGER NOT NULL,
		status   TEXT NOT NULL,
		detail   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_evictions_run_id ON evictions(run_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run outcome and its per-snapshot results in one transaction.
func (s *Store) Record(ctx context.Context, out *eviction.RunOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	d := out.Decision
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, mode, snapshots, threshold, evicted, failed, bytes_freed, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.RunID,
		out.StartedAt.UnixNano(),
		string(out.Mode),
		len(d.Retain)+len(d.Evict),
		d.Threshold,
		out.Count(eviction.StatusRemoved)+out.Count(eviction.StatusWouldEvict),
		out.Count(eviction.StatusFailed),
		out.BytesFreed,
		int64(out.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", out.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO evictions (run_id, snapshot, size, status, detail) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range out.Results {
		if _, err := stmt.ExecContext(ctx, out.RunID, r.Snapshot.Name, r.Snapshot.Size, string(r.Status), r.Detail); err != nil {
			return fmt.Errorf("failed to insert eviction %s: %w", r.Snapshot.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, mode, snapshots, threshold, evicted, failed, bytes_freed, duration_ns
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, dur int64
		if err := rows.Scan(&r.ID, &started, &r.Mode, &r.Snapshots, &r.Threshold, &r.Evicted, &r.Failed, &r.BytesFreed, &dur); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.Duration = time.Duration(dur)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Evictions returns the per-snapshot results of one run in the order they
// were applied.
func (s *Store) Evictions(ctx context.Context, runID string) ([]Eviction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, snapshot, size, status, detail FROM evictions WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evictions for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Eviction
	for rows.Next() {
		var e Eviction
		if err := rows.Scan(&e.RunID, &e.Snapshot, &e.Size, &e.Status, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan eviction: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
