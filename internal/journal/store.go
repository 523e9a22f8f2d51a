package journal

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

	"moviefmt/internal/services"
)

// Store is the SQLite-backed journal.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Entry is one journaled action.
type Entry struct {
	ID          int64
	RunID       string
	Folder      string
	Action      string
	Source      string
	Destination string
	Timestamp   time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	timestampLayout = time.RFC3339Nano
)

// Open creates or opens the journal at path, creating parent directories.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "journal path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
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
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entry. A zero Timestamp is replaced by the current time.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.RunID == "" || entry.Action == "" {
		return services.Wrap(services.ErrValidation, "journal", "record", "run id and action are required", nil)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	return s.execWithRetry(ctx,
		`INSERT INTO entries (run_id, folder, action, source, destination, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Folder, entry.Action, entry.Source, entry.Destination,
		entry.Timestamp.UTC().Format(timestampLayout),
	)
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, run_id, folder, action, source, destination, created_at
		FROM entries ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Run returns every entry of one run in the order it was recorded.
func (s *Store) Run(ctx context.Context, runID string) ([]Entry, error) {
	return s.query(ctx, `SELECT id, run_id, folder, action, source, destination, created_at
		FROM entries WHERE run_id = ? ORDER BY id`, runID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			created string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Folder, &entry.Action,
			&entry.Source, &entry.Destination, &created); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Timestamp, err = time.Parse(timestampLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse journal timestamp %q: %w", created, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
