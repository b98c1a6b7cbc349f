package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	deadlineout "pacekeeper/internal/modules/deadline/adapter/out"
	"pacekeeper/internal/modules/deadline/domain"
	apperrors "pacekeeper/internal/platform/errors"
)

var base = time.Date(2026, 2, 10, 21, 30, 0, 123456789, time.UTC)

func TestVaultDeadlineStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := deadlineout.NewVaultDeadlineStore(t.TempDir())
	ctx := context.Background()

	deadline := domain.Deadline{
		ID:            "0b8f-1",
		Title:         "A Memory Called Empire",
		Author:        "Arkady Martine",
		Format:        domain.FormatAudio,
		TotalQuantity: 57_600_000,
		DeadlineDate:  "2026-03-01",
		CreatedAt:     base,
		Slug:          "a-memory-called-empire-0b8f1",
		Review: &domain.ReviewTracking{
			ReviewDueDate: "2026-03-08",
			Platforms:     []domain.ReviewPlatform{{Name: "Libro.fm", Posted: true}},
			CreatedAt:     base,
		},
	}
	path, err := store.Save(ctx, domain.DeadlineDocument{Deadline: deadline, Body: "my notes\n"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "a-memory-called-empire-0b8f1.md" {
		t.Fatalf("unexpected note path %s", path)
	}

	got, err := store.FindByID(ctx, deadline.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Body != "\nmy notes\n" {
		t.Fatalf("unexpected body %q", got.Body)
	}
	d := got.Deadline
	if d.Title != deadline.Title || d.Format != domain.FormatAudio || d.TotalQuantity != deadline.TotalQuantity || d.DeadlineDate != "2026-03-01" {
		t.Fatalf("unexpected deadline %+v", d)
	}
	if !d.CreatedAt.Equal(base) {
		t.Fatalf("created_at drifted: %s", d.CreatedAt)
	}
	if d.Review == nil || d.Review.ReviewDueDate != "2026-03-08" || len(d.Review.Platforms) != 1 || !d.Review.Platforms[0].Posted {
		t.Fatalf("review tracking lost: %+v", d.Review)
	}

	// A save without a body keeps what is already on disk.
	deadline.TotalQuantity = 58_000_000
	if _, err := store.Save(ctx, domain.DeadlineDocument{Deadline: deadline}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _ = store.FindByID(ctx, deadline.ID)
	if got.Body != "\nmy notes\n" || got.Deadline.TotalQuantity != 58_000_000 {
		t.Fatalf("resave should keep body and update fields: %+v", got)
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVaultDeadlineStoreKeepsMalformedDate(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	store := deadlineout.NewVaultDeadlineStore(vault)
	ctx := context.Background()

	good := domain.Deadline{ID: "good", Title: "Piranesi", Format: domain.FormatPhysical, TotalQuantity: 272, DeadlineDate: "2026-03-01", CreatedAt: base, Slug: "piranesi-good"}
	if _, err := store.Save(ctx, domain.DeadlineDocument{Deadline: good}); err != nil {
		t.Fatalf("save: %v", err)
	}
	note := "---\nschema_version: 1\nid: bad\ntitle: Hand Edited\nformat: ebook\ntotal_quantity: 300\ndeadline_date: soon\ncreated_at: \"2026-02-10T21:30:00Z\"\n---\n"
	if err := os.WriteFile(filepath.Join(vault, "deadlines", "bad.md"), []byte(note), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected both notes, got %d", len(docs))
	}
	bad, err := store.FindByID(ctx, "bad")
	if err != nil {
		t.Fatalf("find bad: %v", err)
	}
	if bad.Deadline.DeadlineDate != "soon" || bad.Deadline.Slug != "bad" {
		t.Fatalf("raw date should be kept: %+v", bad.Deadline)
	}
	if _, err := store.FindByID(ctx, "good"); err != nil {
		t.Fatalf("find good: %v", err)
	}

	// Notes missing their identity are still rejected.
	if err := os.WriteFile(filepath.Join(vault, "deadlines", "nameless.md"), []byte("---\nid: nameless\nformat: ebook\n---\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	if _, err := store.List(ctx); err == nil {
		t.Fatalf("expected an error for a note without a title")
	}
}

func TestSQLiteLedgerStoreKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	store, err := deadlineout.NewSQLiteLedgerStore(filepath.Join(t.TempDir(), "db", "ledger.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	exerciseLedgerStore(t, store)
}

func TestMemoryLedgerStore(t *testing.T) {
	t.Parallel()
	exerciseLedgerStore(t, deadlineout.NewMemoryLedgerStore())
}

func exerciseLedgerStore(t *testing.T, store interface {
	AppendProgress(context.Context, domain.ProgressEntry) error
	AppendStatus(context.Context, domain.StatusEntry) error
	Progress(context.Context, string) ([]domain.ProgressEntry, error)
	Statuses(context.Context, string) ([]domain.StatusEntry, error)
	Snapshot(context.Context) (*domain.Log, error)
}) {
	t.Helper()
	ctx := context.Background()
	// Out-of-order timestamps: the later insert carries the earlier time.
	entries := []domain.ProgressEntry{
		{ID: "p1", DeadlineID: "d1", CurrentProgress: 50, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p2", DeadlineID: "d1", CurrentProgress: 20, CreatedAt: base},
		{ID: "p3", DeadlineID: "d2", CurrentProgress: 7, CreatedAt: base, IgnoreInCalcs: true},
	}
	for _, e := range entries {
		if err := store.AppendProgress(ctx, e); err != nil {
			t.Fatalf("append progress: %v", err)
		}
	}
	if err := store.AppendStatus(ctx, domain.StatusEntry{ID: "s1", DeadlineID: "d1", Status: domain.StatusReading, CreatedAt: base}); err != nil {
		t.Fatalf("append status: %v", err)
	}

	progress, err := store.Progress(ctx, "d1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress) != 2 || progress[0].ID != "p1" || progress[1].ID != "p2" {
		t.Fatalf("expected insertion order, got %+v", progress)
	}
	if !progress[1].CreatedAt.Equal(base) {
		t.Fatalf("timestamp drifted: %s", progress[1].CreatedAt)
	}
	if domain.CurrentProgress(progress) != 50 {
		t.Fatalf("latest by time should be 50")
	}

	log, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if log.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", log.Len())
	}
	d2 := log.Progress("d2")
	if len(d2) != 1 || !d2[0].IgnoreInCalcs {
		t.Fatalf("ignore flag lost: %+v", d2)
	}
	statuses, err := store.Statuses(ctx, "d1")
	if err != nil || len(statuses) != 1 || statuses[0].Status != domain.StatusReading {
		t.Fatalf("unexpected statuses %+v err=%v", statuses, err)
	}

	if err := store.AppendProgress(ctx, domain.ProgressEntry{ID: "p4", DeadlineID: "d1", CurrentProgress: 60, CreatedAt: base}); err != nil {
		t.Fatalf("append after snapshot: %v", err)
	}
	if len(log.Progress("d1")) != 2 {
		t.Fatalf("snapshot must not see later appends")
	}
}

func TestPDFPageCounterMissingFile(t *testing.T) {
	t.Parallel()
	counter := deadlineout.NewLocalPDFPageCounter()
	if _, err := counter.CountPages(context.Background(), filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatalf("expected error for missing pdf")
	}
}
