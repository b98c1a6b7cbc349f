package in

import (
	"context"

	"pacekeeper/internal/modules/pace/dto"
	pacein "pacekeeper/internal/modules/pace/port/in"
)

type CLIHandler struct {
	usecase pacein.Usecase
}

func NewCLIHandler(usecase pacein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Calculate(ctx context.Context, deadlineID string) (dto.ResultOutput, error) {
	return h.usecase.Calculate(ctx, deadlineID)
}

func (h CLIHandler) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) UserPace(ctx context.Context) ([]dto.UserPaceOutput, error) {
	return h.usecase.UserPace(ctx)
}

func (h CLIHandler) Rank(ctx context.Context, limit int) ([]dto.ResultOutput, error) {
	return h.usecase.Rank(ctx, limit)
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ProjectOutput, error) {
	return h.usecase.Project(ctx)
}
