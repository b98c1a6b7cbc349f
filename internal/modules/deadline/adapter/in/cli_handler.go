package in

import (
	"context"
	"fmt"
	"math"

	"pacekeeper/internal/modules/deadline/dto"
	deadlinein "pacekeeper/internal/modules/deadline/port/in"
	apperrors "pacekeeper/internal/platform/errors"
)

const msPerMinute = 60_000

type CLIHandler struct {
	usecase deadlinein.Usecase
}

func NewCLIHandler(usecase deadlinein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Add creates a deadline. Audio quantities are typed in minutes and stored
// as milliseconds.
func (h CLIHandler) Add(ctx context.Context, input dto.CreateInput) (dto.DeadlineOutput, error) {
	if input.Format == "audio" {
		input.TotalQuantity = minutesToMillis(input.TotalQuantity)
	}
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.DeadlineOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.LedgerOutput, error) {
	return h.usecase.Ledger(ctx, id)
}

// LogProgress appends a cumulative value, in minutes for audio deadlines.
func (h CLIHandler) LogProgress(ctx context.Context, id string, value int, ignore bool) (dto.ProgressOutput, error) {
	if value < 0 {
		return dto.ProgressOutput{}, fmt.Errorf("%w: progress must be non-negative", apperrors.ErrInvalidInput)
	}
	deadline, err := h.usecase.Get(ctx, id)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	if deadline.Format == "audio" {
		value = minutesToMillis(value)
	}
	return h.usecase.LogProgress(ctx, dto.LogProgressInput{DeadlineID: id, CurrentProgress: value, IgnoreInCalcs: ignore})
}

func (h CLIHandler) SetStatus(ctx context.Context, id, status, reviewDue string, platforms []string) (dto.StatusOutput, error) {
	return h.usecase.ChangeStatus(ctx, dto.ChangeStatusInput{DeadlineID: id, Status: status, ReviewDueDate: reviewDue, Platforms: platforms})
}

func (h CLIHandler) UpdateReview(ctx context.Context, input dto.UpdateReviewInput) (dto.ReviewUpdateOutput, error) {
	return h.usecase.UpdateReview(ctx, input)
}

func minutesToMillis(minutes int) int {
	if minutes > math.MaxInt/msPerMinute {
		return math.MaxInt
	}
	return minutes * msPerMinute
}
