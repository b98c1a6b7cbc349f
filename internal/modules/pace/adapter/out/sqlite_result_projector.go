package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pacekeeper/internal/modules/pace/domain"
	paceout "pacekeeper/internal/modules/pace/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteResultProjector keeps a read model of the latest results for
// calendar and chart consumers. It is rebuilt from the ledger on demand.
type SQLiteResultProjector struct {
	db *sql.DB
}

func NewSQLiteResultProjector(dbPath string) (paceout.ResultProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteResultProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteResultProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS deadline_results (
  deadline_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  format TEXT NOT NULL,
  unit TEXT NOT NULL,
  deadline_date TEXT,
  days_left INTEGER,
  current_progress INTEGER NOT NULL,
  progress_percentage INTEGER NOT NULL,
  remaining INTEGER NOT NULL,
  required_kind TEXT NOT NULL,
  required_per_day REAL,
  required_display TEXT NOT NULL,
  user_pace REAL NOT NULL,
  user_pace_display TEXT NOT NULL,
  urgency TEXT NOT NULL,
  status TEXT NOT NULL,
  pace_reliability TEXT NOT NULL,
  computed_at TEXT NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create deadline_results table: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (p *SQLiteResultProjector) Replace(ctx context.Context, results []domain.Result, computedAt time.Time) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deadline_results`); err != nil {
		return fmt.Errorf("reset deadline results: %w", err)
	}
	for _, r := range results {
		if err := upsertResult(ctx, tx, r, computedAt); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results replace: %w", err)
	}
	return nil
}

func (p *SQLiteResultProjector) UpsertResult(ctx context.Context, r domain.Result, computedAt time.Time) error {
	return upsertResult(ctx, p.db, r, computedAt)
}

func upsertResult(ctx context.Context, exec execer, r domain.Result, computedAt time.Time) error {
	const stmt = `
INSERT INTO deadline_results (deadline_id, title, format, unit, deadline_date, days_left, current_progress, progress_percentage, remaining, required_kind, required_per_day, required_display, user_pace, user_pace_display, urgency, status, pace_reliability, computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(deadline_id) DO UPDATE SET
  title=excluded.title,
  format=excluded.format,
  unit=excluded.unit,
  deadline_date=excluded.deadline_date,
  days_left=excluded.days_left,
  current_progress=excluded.current_progress,
  progress_percentage=excluded.progress_percentage,
  remaining=excluded.remaining,
  required_kind=excluded.required_kind,
  required_per_day=excluded.required_per_day,
  required_display=excluded.required_display,
  user_pace=excluded.user_pace,
  user_pace_display=excluded.user_pace_display,
  urgency=excluded.urgency,
  status=excluded.status,
  pace_reliability=excluded.pace_reliability,
  computed_at=excluded.computed_at;
`
	var daysLeft sql.NullInt64
	if r.DateKnown {
		daysLeft = sql.NullInt64{Int64: int64(r.DaysLeft), Valid: true}
	}
	var perDay sql.NullFloat64
	if r.RequiredPace.Kind == domain.RequiredValue {
		perDay = sql.NullFloat64{Float64: r.RequiredPace.PerDay, Valid: true}
	}
	_, err := exec.ExecContext(ctx, stmt,
		r.DeadlineID,
		r.Title,
		string(r.Format),
		string(r.Unit),
		r.DeadlineDate,
		daysLeft,
		r.CurrentProgress,
		r.ProgressPercentage,
		r.Remaining,
		string(r.RequiredPace.Kind),
		perDay,
		r.RequiredPaceDisplay,
		r.UserPace,
		r.UserPaceDisplay,
		string(r.Urgency),
		string(r.Status),
		string(r.PaceReliability),
		computedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert deadline result: %w", err)
	}
	return nil
}
