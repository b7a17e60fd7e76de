// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog imports exported entries into a SQLite candidate
// catalog that downstream tools pick work from.
//
// Each entry becomes a pending candidate keyed by "<source>:<index>", so
// importing the same document twice never duplicates a candidate.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dump-curator/pkg/types"
)

// Status is the lifecycle state of a candidate.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const (
	candidatesTable = "candidates"
	runsTable       = "import_runs"
)

// Catalog manages the candidate SQLite database.
type Catalog struct {
	db     *sql.DB
	cfg    types.CatalogConfig
	logger log.Logger
	now    func() time.Time
}

// Open opens or creates the catalog database at cfg.DBPath and creates
// the schema if it does not exist.
func Open(cfg types.CatalogConfig, logger log.Logger) (*Catalog, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS import_runs (
			id TEXT PRIMARY KEY,
			origin TEXT NOT NULL,
			started_at TEXT NOT NULL,
			eligible INTEGER NOT NULL,
			inserted INTEGER NOT NULL,
			skipped INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL UNIQUE,
			source_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			language TEXT NOT NULL,
			votes INTEGER NOT NULL DEFAULT 0,
			date TEXT,
			author TEXT,
			origin TEXT NOT NULL,
			status TEXT NOT NULL,
			run_id TEXT REFERENCES import_runs(id),
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// DeletePending removes every pending candidate and returns how many
// rows were deleted.
func (c *Catalog) DeletePending(ctx context.Context) (int64, error) {
	query, args, err := sq.Delete(candidatesTable).
		Where(sq.Eq{"status": string(StatusPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting pending candidates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted candidates: %w", err)
	}
	level.Info(c.logger).Log("msg", "deleted pending candidates", "count", n)
	return n, nil
}

// Counts returns the number of candidates per status.
func (c *Catalog) Counts(ctx context.Context) (map[Status]int, error) {
	query, args, err := sq.Select("status", "count(*)").
		From(candidatesTable).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building count query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting candidates: %w", err)
	}
	defer rows.Close()

	counts := map[Status]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}
