// Package history keeps a small SQLite ledger of edit runs so the history
// command can show what was done to which file and whether it worked.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the outcome of one recorded operation.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusDryRun  Status = "dry-run"
)

// Entry is one row of the ledger.
type Entry struct {
	ID        string
	Operation string
	InputPath string
	Status    Status
	Detail    string
	StartedAt time.Time
	Elapsed   time.Duration
}

// Store manages the ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// timeLayout is fixed-width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_runs",
		sql: `CREATE TABLE runs (
            id TEXT PRIMARY KEY,
            operation TEXT NOT NULL,
            input_path TEXT NOT NULL,
            status TEXT NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            started_at TEXT NOT NULL,
            elapsed_ms INTEGER NOT NULL DEFAULT 0
        )`,
	},
	{
		version: "002_runs_started_at_idx",
		sql:     `CREATE INDEX idx_runs_started_at ON runs(started_at)`,
	},
}

// Open creates the parent directory if needed, connects to the database at
// path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// NewID returns a fresh entry identifier.
func NewID() string {
	return uuid.NewString()
}

// Record inserts e. An empty ID is filled with NewID and a zero StartedAt
// with the current time. The stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	e.StartedAt = e.StartedAt.UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, operation, input_path, status, detail, started_at, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Operation,
		e.InputPath,
		string(e.Status),
		e.Detail,
		e.StartedAt.Format(timeLayout),
		e.Elapsed.Milliseconds(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert run: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, operation, input_path, status, detail, started_at, elapsed_ms
        FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			status    string
			startedAt string
			elapsedMS int64
		)
		if err := rows.Scan(&e.ID, &e.Operation, &e.InputPath, &status, &e.Detail, &startedAt, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Status = Status(status)
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t, err := time.Parse(timeLayout, startedAt); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}
