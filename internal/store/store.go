// Package store provides a SQLite-backed ledger of netatmo-cli invocations.
// Each run records the binary version it executed as, which lets the CLI
// notice upgrades and downgrades between runs and list the versions seen on
// this host.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Disabled is the db path value that turns the ledger off.
const Disabled = "disabled"

// Run is a single recorded invocation.
type Run struct {
	// Version is the resolved binary version.
	Version string
	// Commit is the VCS revision of the binary.
	Commit string
	// Command is the Cobra command path that ran.
	Command string
	// StartedAt is when the invocation began.
	StartedAt time.Time
}

// VersionSeen summarises every run made with one version.
type VersionSeen struct {
	// Version is the binary version.
	Version string
	// FirstSeen is the first run with this version.
	FirstSeen time.Time
	// LastSeen is the most recent run with this version.
	LastSeen time.Time
	// Runs is the number of recorded invocations.
	Runs int
}

// RunLedger persists invocations and answers version history queries.
// Implementations must be safe for concurrent use.
type RunLedger interface {
	// RecordRun persists a single invocation.
	RecordRun(ctx context.Context, r Run) error
	// LastVersion returns the version of the most recent recorded run, or ""
	// when the ledger is empty.
	LastVersion(ctx context.Context) (string, error)
	// Versions returns one entry per distinct version, most recently seen first.
	Versions(ctx context.Context) ([]VersionSeen, error)
	// Close releases any resources held by the ledger.
	Close() error
}

// SQLiteStore is a RunLedger backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the run ledger database.
// It resolves to ~/.netatmo-cli/state.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".netatmo-cli")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "state.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// busy_timeout goes first so the switch to WAL also waits on other processes.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Single connection: one writer, and :memory: stays a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    version      TEXT    NOT NULL CHECK(version <> ''),
    commit_sha   TEXT    NOT NULL,
    command      TEXT    NOT NULL,
    started_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_runs_version_started
    ON runs (version, started_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// RecordRun persists a single invocation. A zero StartedAt is stamped with
// the current time.
func (s *SQLiteStore) RecordRun(ctx context.Context, r Run) error {
	if r.Version == "" {
		return errors.New("store: record run: empty version")
	}
	started := r.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	const q = `INSERT INTO runs (version, commit_sha, command, started_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, r.Version, r.Commit, r.Command, started.Unix()); err != nil {
		return fmt.Errorf("store: record run: %w", err)
	}
	return nil
}

// LastVersion returns the version of the most recently recorded run.
func (s *SQLiteStore) LastVersion(ctx context.Context) (string, error) {
	const q = `SELECT version FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`

	var v string
	err := s.db.QueryRowContext(ctx, q).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: last version: %w", err)
	}
	return v, nil
}

// Versions returns one summary row per distinct version, most recently seen first.
func (s *SQLiteStore) Versions(ctx context.Context) ([]VersionSeen, error) {
	const q = `
SELECT version, MIN(started_at), MAX(started_at), COUNT(*), MAX(id)
FROM   runs
GROUP  BY version
ORDER  BY MAX(started_at) DESC, MAX(id) DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: versions: %w", err)
	}
	defer rows.Close()

	var out []VersionSeen
	for rows.Next() {
		var v VersionSeen
		var first, last, lastID int64
		if err := rows.Scan(&v.Version, &first, &last, &v.Runs, &lastID); err != nil {
			return nil, fmt.Errorf("store: versions scan: %w", err)
		}
		v.FirstSeen = time.Unix(first, 0)
		v.LastSeen = time.Unix(last, 0)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: versions rows: %w", err)
	}
	return out, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
