package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	deadlinedomain "pacekeeper/internal/modules/deadline/domain"
	"pacekeeper/internal/modules/pace/domain"
	"pacekeeper/internal/modules/pace/service"
	apperrors "pacekeeper/internal/platform/errors"
)

type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time { return c.now }

type fakeSource struct {
	ledgers []domain.Ledger
	err     error
}

func (f *fakeSource) Ledgers(context.Context) ([]domain.Ledger, error) {
	return f.ledgers, f.err
}

type fakeProjector struct {
	replaces int
	upserted []string
	err      error
}

func (f *fakeProjector) Replace(_ context.Context, results []domain.Result, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.replaces++
	f.upserted = nil
	for _, r := range results {
		f.upserted = append(f.upserted, r.DeadlineID)
	}
	return nil
}

func (f *fakeProjector) UpsertResult(_ context.Context, r domain.Result, _ time.Time) error {
	f.upserted = append(f.upserted, r.DeadlineID)
	return nil
}

var start = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func readingLedger(id string, format deadlinedomain.Format, total int, date string, values ...int) domain.Ledger {
	l := domain.Ledger{
		Deadline: deadlinedomain.Deadline{ID: id, Title: id, Format: format, TotalQuantity: total, DeadlineDate: date},
		Statuses: []deadlinedomain.StatusEntry{{ID: id + "-s", DeadlineID: id, Status: deadlinedomain.StatusReading, CreatedAt: start.AddDate(0, 0, -10)}},
	}
	for i, v := range values {
		l.Progress = append(l.Progress, deadlinedomain.ProgressEntry{
			ID:              id + "-p" + string(rune('0'+i)),
			DeadlineID:      id,
			CurrentProgress: v,
			CreatedAt:       start.AddDate(0, 0, i-len(values)),
		})
	}
	return l
}

func newService(t *testing.T, clk *mutableClock, source *fakeSource, projector *fakeProjector) (*service.PaceService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	svc, err := service.NewPaceService(clk, source, projector, domain.DefaultSettings(), 8, zap.New(core))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, logs
}

func TestComputeUsesActiveLedgersForPace(t *testing.T) {
	t.Parallel()
	active := readingLedger("a", deadlinedomain.FormatPhysical, 400, "2026-07-11", 30, 60, 90, 120)
	paused := readingLedger("b", deadlinedomain.FormatPhysical, 400, "2026-07-20", 100, 200, 300)
	paused.Statuses = append(paused.Statuses, deadlinedomain.StatusEntry{Status: deadlinedomain.StatusPaused, CreatedAt: start.Add(-time.Minute)})
	svc, _ := newService(t, &mutableClock{now: start}, &fakeSource{ledgers: []domain.Ledger{active, paused}}, &fakeProjector{})

	comp, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if comp.Pages.Reliability != domain.ReliabilityRecentData || comp.Pages.ActiveDays != 4 {
		t.Fatalf("unexpected page pace %+v", comp.Pages)
	}
	if got, want := comp.Pages.PerDay, 120.0/14; got != want {
		t.Fatalf("paused ledger leaked into pace: got %f want %f", got, want)
	}
	if comp.Minutes.Reliability != domain.ReliabilityDefaultFallback {
		t.Fatalf("no audio history should fall back, got %+v", comp.Minutes)
	}
	if len(comp.Results) != 2 || comp.Results[1].Status != deadlinedomain.StatusPaused {
		t.Fatalf("every ledger should get a result: %+v", comp.Results)
	}
}

func TestComputeCachesPerContentAndDay(t *testing.T) {
	t.Parallel()
	clk := &mutableClock{now: start}
	source := &fakeSource{ledgers: []domain.Ledger{readingLedger("a", deadlinedomain.FormatEbook, 300, "2026-07-05", 10, 20)}}
	svc, logs := newService(t, clk, source, &fakeProjector{})
	ctx := context.Background()

	first, err := svc.Compute(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	first.Results[0].Title = "mutated"
	clk.now = start.Add(3 * time.Hour)
	second, _ := svc.Compute(ctx)
	if hits := logs.FilterMessage("pace cache hit").Len(); hits != 1 {
		t.Fatalf("expected one cache hit, got %d", hits)
	}
	if second.Results[0].Title != "a" {
		t.Fatalf("cached results must not be shared with callers")
	}

	clk.now = start.AddDate(0, 0, 1)
	third, _ := svc.Compute(ctx)
	if logs.FilterMessage("pace cache hit").Len() != 1 {
		t.Fatalf("a new day must recompute")
	}
	if third.Results[0].DaysLeft != second.Results[0].DaysLeft-1 {
		t.Fatalf("days left should move with the day: %d vs %d", third.Results[0].DaysLeft, second.Results[0].DaysLeft)
	}

	source.ledgers[0].Progress = append(source.ledgers[0].Progress, deadlinedomain.ProgressEntry{ID: "new", CurrentProgress: 40, CreatedAt: clk.now})
	fourth, _ := svc.Compute(ctx)
	if logs.FilterMessage("pace cache hit").Len() != 1 {
		t.Fatalf("a ledger change must recompute")
	}
	if fourth.Results[0].CurrentProgress != 40 {
		t.Fatalf("expected fresh progress, got %d", fourth.Results[0].CurrentProgress)
	}
}

func TestCalculateRankAndProject(t *testing.T) {
	t.Parallel()
	late := readingLedger("late", deadlinedomain.FormatPhysical, 300, "2026-06-29", 100)
	fine := readingLedger("fine", deadlinedomain.FormatPhysical, 300, "2026-07-30", 280)
	done := readingLedger("done", deadlinedomain.FormatAudio, 600_000, "2026-06-01", 600_000)
	done.Statuses = append(done.Statuses, deadlinedomain.StatusEntry{Status: deadlinedomain.StatusComplete, CreatedAt: start.Add(-time.Hour)})
	projector := &fakeProjector{}
	svc, _ := newService(t, &mutableClock{now: start}, &fakeSource{ledgers: []domain.Ledger{fine, done, late}}, projector)
	ctx := context.Background()

	r, err := svc.Calculate(ctx, "late")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if r.DaysLeft != -2 || r.Urgency != domain.UrgencyOverdue {
		t.Fatalf("unexpected result %+v", r)
	}
	if _, err := svc.Calculate(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	ranked, err := svc.Rank(ctx, 0)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 2 || ranked[0].DeadlineID != "late" || ranked[1].DeadlineID != "fine" {
		t.Fatalf("unexpected ranking %+v", ranked)
	}

	n, at, err := svc.Project(ctx)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if n != 3 || !at.Equal(start) || projector.replaces != 1 || len(projector.upserted) != 3 {
		t.Fatalf("unexpected projection n=%d at=%s projector=%+v", n, at, projector)
	}

	projector.err = errors.New("disk full")
	if _, _, err := svc.Project(ctx); err == nil {
		t.Fatalf("expected replace error to surface")
	}
	if projector.replaces != 1 {
		t.Fatalf("failed replace must not count, got %d", projector.replaces)
	}
}

func TestComputePropagatesSourceErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	svc, _ := newService(t, &mutableClock{now: start}, &fakeSource{err: boom}, &fakeProjector{})
	if _, err := svc.Compute(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
