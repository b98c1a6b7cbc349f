package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	deadlinedomain "pacekeeper/internal/modules/deadline/domain"
	paceout "pacekeeper/internal/modules/pace/adapter/out"
	"pacekeeper/internal/modules/pace/domain"

	_ "modernc.org/sqlite"
)

func TestSQLiteResultProjectorUpsertAndReplace(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "results.db")
	projector, err := paceout.NewSQLiteResultProjector(dbPath)
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()
	at := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	unknown := domain.Result{
		DeadlineID:          "d1",
		Title:               "Gideon the Ninth",
		Format:              deadlinedomain.FormatEbook,
		Unit:                domain.UnitPages,
		RequiredPace:        domain.RequiredPace{Kind: domain.RequiredUndefined, Unit: domain.UnitPages},
		RequiredPaceDisplay: "n/a",
		UserPaceDisplay:     "25 pages/day",
		UserPace:            25,
		Urgency:             domain.UrgencyImpossible,
		Status:              deadlinedomain.StatusReading,
		PaceReliability:     domain.ReliabilityDefaultFallback,
	}
	if err := projector.UpsertResult(ctx, unknown, at); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	var daysLeft sql.NullInt64
	var perDay sql.NullFloat64
	if err := db.QueryRow(`SELECT days_left, required_per_day FROM deadline_results WHERE deadline_id = 'd1'`).Scan(&daysLeft, &perDay); err != nil {
		t.Fatalf("query: %v", err)
	}
	if daysLeft.Valid || perDay.Valid {
		t.Fatalf("unknown date and undefined pace should be NULL, got %+v %+v", daysLeft, perDay)
	}

	known := unknown
	known.DateKnown = true
	known.DaysLeft = 6
	known.RequiredPace = domain.RequiredPace{Kind: domain.RequiredValue, PerDay: 12.5, Unit: domain.UnitPages}
	known.Urgency = domain.UrgencyGood
	if err := projector.UpsertResult(ctx, known, at.Add(time.Hour)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	var rows int
	var urgency string
	if err := db.QueryRow(`SELECT COUNT(*), MAX(urgency) FROM deadline_results`).Scan(&rows, &urgency); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 || urgency != "good" {
		t.Fatalf("upsert should replace the row, got rows=%d urgency=%s", rows, urgency)
	}

	if err := projector.Replace(ctx, nil, at); err != nil {
		t.Fatalf("replace with nothing: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM deadline_results`).Scan(&rows); err != nil {
		t.Fatalf("count after replace: %v", err)
	}
	if rows != 0 {
		t.Fatalf("empty replace should clear the projection, got %d rows", rows)
	}
}

func TestSQLiteResultProjectorReplaceIsAtomic(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "results.db")
	projector, err := paceout.NewSQLiteResultProjector(dbPath)
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()
	at := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	row := func(id string) domain.Result {
		return domain.Result{
			DeadlineID:          id,
			Title:               id,
			Format:              deadlinedomain.FormatPhysical,
			Unit:                domain.UnitPages,
			RequiredPace:        domain.RequiredPace{Kind: domain.RequiredSatisfied, Unit: domain.UnitPages},
			RequiredPaceDisplay: "done",
			UserPaceDisplay:     "25 pages/day",
			Urgency:             domain.UrgencyGood,
			Status:              deadlinedomain.StatusReading,
			PaceReliability:     domain.ReliabilityDefaultFallback,
		}
	}
	if err := projector.Replace(ctx, []domain.Result{row("a"), row("b")}, at); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Exec(`CREATE TRIGGER reject_broken BEFORE INSERT ON deadline_results WHEN NEW.deadline_id = 'broken' BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := projector.Replace(ctx, []domain.Result{row("c"), row("broken")}, at.Add(time.Hour)); err == nil {
		t.Fatalf("expected replace to fail on the rejected row")
	}
	var ids string
	if err := db.QueryRow(`SELECT group_concat(deadline_id, ',') FROM (SELECT deadline_id FROM deadline_results ORDER BY deadline_id)`).Scan(&ids); err != nil {
		t.Fatalf("query ids: %v", err)
	}
	if ids != "a,b" {
		t.Fatalf("failed replace must leave the previous projection, got %q", ids)
	}
}
