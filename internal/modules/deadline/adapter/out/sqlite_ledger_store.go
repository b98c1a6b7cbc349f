package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pacekeeper/internal/modules/deadline/domain"
	deadlineout "pacekeeper/internal/modules/deadline/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteLedgerStore keeps the progress and status histories. Rows are only
// ever inserted; reads return them by rowid, which is insertion order.
type SQLiteLedgerStore struct {
	db *sql.DB
}

func NewSQLiteLedgerStore(dbPath string) (deadlineout.LedgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteLedgerStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteLedgerStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS progress_entries (
  id TEXT PRIMARY KEY,
  deadline_id TEXT NOT NULL,
  current_progress INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  ignore_in_calcs INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_progress_deadline ON progress_entries(deadline_id);
CREATE TABLE IF NOT EXISTS status_entries (
  id TEXT PRIMARY KEY,
  deadline_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_status_deadline ON status_entries(deadline_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create ledger tables: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteLedgerStore) AppendProgress(ctx context.Context, entry domain.ProgressEntry) error {
	const stmt = `INSERT INTO progress_entries (id, deadline_id, current_progress, created_at, ignore_in_calcs) VALUES (?, ?, ?, ?, ?)`
	ignore := 0
	if entry.IgnoreInCalcs {
		ignore = 1
	}
	if _, err := s.db.ExecContext(ctx, stmt, entry.ID, entry.DeadlineID, entry.CurrentProgress, formatTime(entry.CreatedAt), ignore); err != nil {
		return fmt.Errorf("insert progress entry: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerStore) AppendStatus(ctx context.Context, entry domain.StatusEntry) error {
	const stmt = `INSERT INTO status_entries (id, deadline_id, status, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, stmt, entry.ID, entry.DeadlineID, string(entry.Status), formatTime(entry.CreatedAt)); err != nil {
		return fmt.Errorf("insert status entry: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerStore) Progress(ctx context.Context, deadlineID string) ([]domain.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, deadline_id, current_progress, created_at, ignore_in_calcs FROM progress_entries WHERE deadline_id = ? ORDER BY rowid`, deadlineID)
	if err != nil {
		return nil, fmt.Errorf("query progress entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanProgress(rows)
}

func (s *SQLiteLedgerStore) Statuses(ctx context.Context, deadlineID string) ([]domain.StatusEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, deadline_id, status, created_at FROM status_entries WHERE deadline_id = ? ORDER BY rowid`, deadlineID)
	if err != nil {
		return nil, fmt.Errorf("query status entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanStatuses(rows)
}

func (s *SQLiteLedgerStore) Snapshot(ctx context.Context) (*domain.Log, error) {
	log := domain.NewLog()

	progressRows, err := s.db.QueryContext(ctx, `SELECT id, deadline_id, current_progress, created_at, ignore_in_calcs FROM progress_entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query progress entries: %w", err)
	}
	progress, err := scanProgress(progressRows)
	_ = progressRows.Close()
	if err != nil {
		return nil, err
	}
	for _, e := range progress {
		log.AppendProgress(e)
	}

	statusRows, err := s.db.QueryContext(ctx, `SELECT id, deadline_id, status, created_at FROM status_entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query status entries: %w", err)
	}
	statuses, err := scanStatuses(statusRows)
	_ = statusRows.Close()
	if err != nil {
		return nil, err
	}
	for _, e := range statuses {
		log.AppendStatus(e)
	}
	return log, nil
}

func scanProgress(rows *sql.Rows) ([]domain.ProgressEntry, error) {
	out := []domain.ProgressEntry{}
	for rows.Next() {
		var (
			e       domain.ProgressEntry
			created string
			ignore  int
		)
		if err := rows.Scan(&e.ID, &e.DeadlineID, &e.CurrentProgress, &created, &ignore); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		at, err := parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("progress entry %s: %w", e.ID, err)
		}
		e.CreatedAt = at
		e.IgnoreInCalcs = ignore != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress entries: %w", err)
	}
	return out, nil
}

func scanStatuses(rows *sql.Rows) ([]domain.StatusEntry, error) {
	out := []domain.StatusEntry{}
	for rows.Next() {
		var (
			e       domain.StatusEntry
			status  string
			created string
		)
		if err := rows.Scan(&e.ID, &e.DeadlineID, &status, &created); err != nil {
			return nil, fmt.Errorf("scan status entry: %w", err)
		}
		at, err := parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("status entry %s: %w", e.ID, err)
		}
		e.Status = domain.Status(status)
		e.CreatedAt = at
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status entries: %w", err)
	}
	return out, nil
}

// Timestamps are stored as UTC RFC3339 with nanoseconds so equal instants
// stay equal after a round trip.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", value, err)
	}
	return t, nil
}
