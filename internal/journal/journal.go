// Package journal keeps the durable, queryable record of snapkeep runs in
// a sqlite database next to the log files.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"snapkeep/internal/journal/migrations"
	"snapkeep/internal/snap"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Run is one recorded backup or restore invocation.
type Run struct {
	ID         string
	Operation  string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string // "running", "success" or "error"
	Archived   int
	Marked     int
	Pruned     int
	Restored   int
	Skipped    int
	Errors     int
}

// Journal records run outcomes for the history command and audits.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path and applies
// any pending schema migrations. path can be ":memory:" in tests.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Begin records the start of a run and returns its ID.
func (j *Journal) Begin(operation string, dryRun bool, startedAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := j.db.Exec(
		`INSERT INTO runs (id, operation, dry_run, started_at, status) VALUES (?, ?, ?, ?, 'running')`,
		id, operation, dryRun, startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// Finish records a run's outcome and operation counts.
func (j *Journal) Finish(id, status string, st snap.Stats, finishedAt time.Time) error {
	_, err := j.db.Exec(
		`UPDATE runs
		 SET finished_at = ?, status = ?,
		     archived = ?, marked = ?, pruned = ?, restored = ?, skipped = ?, errors = ?
		 WHERE id = ?`,
		finishedAt.UTC(), status,
		st.Archived, st.Marked, st.Pruned, st.Restored, st.Skipped, st.Errors,
		id,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (j *Journal) Recent(limit int) ([]*Run, error) {
	rows, err := j.db.Query(
		`SELECT id, operation, dry_run, started_at, finished_at, status,
		        archived, marked, pruned, restored, skipped, errors
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Operation, &r.DryRun, &r.StartedAt, &r.FinishedAt, &r.Status,
			&r.Archived, &r.Marked, &r.Pruned, &r.Restored, &r.Skipped, &r.Errors,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}
	return runs, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
