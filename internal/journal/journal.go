package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Journal provides durable storage for run outcomes.
// Uses SQLite with WAL mode for concurrent read access.
type Journal struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
// Should be called when the journal is no longer needed.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// GroupRecord is one journaled group execution.
type GroupRecord struct {
	RunID     string
	Group     string
	Passed    bool
	CreatedAt time.Time
}

// RecordGroup appends the outcome of one group execution.
// Timestamps are stored as RFC 3339 UTC so rows sort and read back
// identically across machines.
func (j *Journal) RecordGroup(ctx context.Context, runID, group string, passed bool) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, group_name, passed, created_at)
		VALUES (?, ?, ?, ?)
	`,
		runID,
		group,
		passed,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record group: %w", err)
	}

	return nil
}

// Runs returns journaled group records, most recent first.
// A non-positive limit returns every record.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (j *Journal) Runs(ctx context.Context, limit int) ([]GroupRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as "no limit"
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, group_name, passed, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []GroupRecord
	for rows.Next() {
		var rec GroupRecord
		var createdAt string
		if err := rows.Scan(&rec.RunID, &rec.Group, &rec.Passed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []GroupRecord{}
	}

	return records, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
