// Package history keeps a SQLite ledger of dispatched commands.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS invocations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	command     TEXT    NOT NULL,
	args        TEXT    NOT NULL DEFAULT '',
	source      TEXT    NOT NULL DEFAULT '',
	work_dir    TEXT    NOT NULL DEFAULT '',
	exit_code   INTEGER NOT NULL,
	error       TEXT    NOT NULL DEFAULT '',
	started_at  TEXT    NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations(started_at);
`

const timeLayout = time.RFC3339Nano

// ErrInvalidEntry indicates an entry without a command name.
var ErrInvalidEntry = errors.New("invalid history entry")

// Entry is one dispatched command.
type Entry struct {
	ID        int64
	Command   string
	Args      []string
	Source    string
	WorkDir   string
	ExitCode  int
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Store is a SQLite-backed history ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite history: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite history: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite history: open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite history: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite history: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends e to the ledger. A zero StartedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Command) == "" {
		return fmt.Errorf("%w: empty command", ErrInvalidEntry)
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (command, args, source, work_dir, exit_code, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Command,
		strings.Join(e.Args, "\x1f"),
		e.Source,
		e.WorkDir,
		e.ExitCode,
		e.Error,
		e.StartedAt.UTC().Format(timeLayout),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("sqlite history: insert: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit below one
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, command, args, source, work_dir, exit_code, error, started_at, duration_ms
		FROM invocations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			rawArgs    string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &rawArgs, &e.Source, &e.WorkDir, &e.ExitCode, &e.Error, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("sqlite history: scan: %w", err)
		}
		if rawArgs != "" {
			e.Args = strings.Split(rawArgs, "\x1f")
		}
		if e.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("sqlite history: parse started_at %q: %w", startedAt, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite history: iterate: %w", err)
	}
	return entries, nil
}
