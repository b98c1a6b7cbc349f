package in

import (
	"context"

	"pacekeeper/internal/modules/deadline/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.DeadlineOutput, error)
	LogProgress(ctx context.Context, input dto.LogProgressInput) (dto.ProgressOutput, error)
	ChangeStatus(ctx context.Context, input dto.ChangeStatusInput) (dto.StatusOutput, error)
	UpdateReview(ctx context.Context, input dto.UpdateReviewInput) (dto.ReviewUpdateOutput, error)
	Get(ctx context.Context, id string) (dto.DeadlineOutput, error)
	List(ctx context.Context) ([]dto.DeadlineOutput, error)
	Ledger(ctx context.Context, id string) (dto.LedgerOutput, error)
	ListLedgers(ctx context.Context) ([]dto.LedgerOutput, error)
}
