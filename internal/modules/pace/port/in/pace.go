package in

import (
	"context"

	"pacekeeper/internal/modules/pace/dto"
)

type Usecase interface {
	Calculate(ctx context.Context, deadlineID string) (dto.ResultOutput, error)
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
	UserPace(ctx context.Context) ([]dto.UserPaceOutput, error)
	Rank(ctx context.Context, limit int) ([]dto.ResultOutput, error)
	Project(ctx context.Context) (dto.ProjectOutput, error)
}
