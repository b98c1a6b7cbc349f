package usecase

import (
	"context"

	"pacekeeper/internal/modules/pace/domain"
	"pacekeeper/internal/modules/pace/dto"
	pacein "pacekeeper/internal/modules/pace/port/in"
	"pacekeeper/internal/modules/pace/service"
)

type Interactor struct {
	svc *service.PaceService
}

func NewInteractor(svc *service.PaceService) pacein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Calculate(ctx context.Context, deadlineID string) (dto.ResultOutput, error) {
	result, err := i.svc.Calculate(ctx, deadlineID)
	if err != nil {
		return dto.ResultOutput{}, err
	}
	return toResultOutput(result), nil
}

func (i *Interactor) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	comp, err := i.svc.Compute(ctx)
	if err != nil {
		return dto.DashboardOutput{}, err
	}
	return dto.DashboardOutput{
		Results:    toResultOutputs(comp.Results),
		Pages:      toUserPaceOutput(comp.Pages),
		Minutes:    toUserPaceOutput(comp.Minutes),
		ComputedAt: comp.ComputedAt,
	}, nil
}

func (i *Interactor) UserPace(ctx context.Context) ([]dto.UserPaceOutput, error) {
	comp, err := i.svc.Compute(ctx)
	if err != nil {
		return nil, err
	}
	return []dto.UserPaceOutput{toUserPaceOutput(comp.Pages), toUserPaceOutput(comp.Minutes)}, nil
}

func (i *Interactor) Rank(ctx context.Context, limit int) ([]dto.ResultOutput, error) {
	ranked, err := i.svc.Rank(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toResultOutputs(ranked), nil
}

func (i *Interactor) Project(ctx context.Context) (dto.ProjectOutput, error) {
	n, at, err := i.svc.Project(ctx)
	if err != nil {
		return dto.ProjectOutput{}, err
	}
	return dto.ProjectOutput{Projected: n, ComputedAt: at}, nil
}

func toResultOutputs(results []domain.Result) []dto.ResultOutput {
	out := make([]dto.ResultOutput, 0, len(results))
	for _, r := range results {
		out = append(out, toResultOutput(r))
	}
	return out
}

func toResultOutput(r domain.Result) dto.ResultOutput {
	return dto.ResultOutput{
		DeadlineID:          r.DeadlineID,
		Title:               r.Title,
		Format:              string(r.Format),
		Unit:                string(r.Unit),
		DeadlineDate:        r.DeadlineDate,
		TotalQuantity:       r.TotalQuantity,
		CurrentProgress:     r.CurrentProgress,
		ProgressPercentage:  r.ProgressPercentage,
		Remaining:           r.Remaining,
		DaysLeft:            r.DaysLeft,
		DateKnown:           r.DateKnown,
		StartedDaysAgo:      r.StartedDaysAgo,
		Started:             r.Started,
		RequiredKind:        string(r.RequiredPace.Kind),
		RequiredPerDay:      r.RequiredPace.PerDay,
		RequiredPaceDisplay: r.RequiredPaceDisplay,
		UserPace:            r.UserPace,
		UserPaceDisplay:     r.UserPaceDisplay,
		Urgency:             string(r.Urgency),
		Status:              string(r.Status),
		PaceReliability:     string(r.PaceReliability),
	}
}

func toUserPaceOutput(p domain.UserPace) dto.UserPaceOutput {
	return dto.UserPaceOutput{
		Unit:        string(p.Unit),
		PerDay:      p.PerDay,
		Display:     domain.FormatUserPace(p),
		Reliability: string(p.Reliability),
		ActiveDays:  p.ActiveDays,
		WindowStart: p.WindowStart.String(),
		WindowEnd:   p.WindowEnd.String(),
	}
}
