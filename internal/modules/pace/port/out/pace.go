package out

import (
	"context"
	"time"

	"pacekeeper/internal/modules/pace/domain"
)

type LedgerSource interface {
	Ledgers(ctx context.Context) ([]domain.Ledger, error)
}

type ResultProjector interface {
	// Replace swaps the whole projection for results in one step.
	Replace(ctx context.Context, results []domain.Result, computedAt time.Time) error
	UpsertResult(ctx context.Context, result domain.Result, computedAt time.Time) error
}
