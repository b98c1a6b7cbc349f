package out

import (
	"context"

	"pacekeeper/internal/modules/deadline/domain"
)

type DeadlineStore interface {
	Save(ctx context.Context, document domain.DeadlineDocument) (string, error)
	FindByID(ctx context.Context, id string) (domain.DeadlineDocument, error)
	List(ctx context.Context) ([]domain.DeadlineDocument, error)
}

// LedgerStore is append-only: it can insert entries and list them, nothing
// else. Lists come back in insertion order.
type LedgerStore interface {
	AppendProgress(ctx context.Context, entry domain.ProgressEntry) error
	AppendStatus(ctx context.Context, entry domain.StatusEntry) error
	Progress(ctx context.Context, deadlineID string) ([]domain.ProgressEntry, error)
	Statuses(ctx context.Context, deadlineID string) ([]domain.StatusEntry, error)
	Snapshot(ctx context.Context) (*domain.Log, error)
}

type PageCounter interface {
	CountPages(ctx context.Context, path string) (int, error)
}
