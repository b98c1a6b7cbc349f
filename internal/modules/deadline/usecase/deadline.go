package usecase

import (
	"context"

	"pacekeeper/internal/modules/deadline/domain"
	"pacekeeper/internal/modules/deadline/dto"
	deadlinein "pacekeeper/internal/modules/deadline/port/in"
	"pacekeeper/internal/modules/deadline/service"
)

type Interactor struct {
	svc *service.DeadlineService
}

func NewInteractor(svc *service.DeadlineService) deadlinein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.DeadlineOutput, error) {
	deadline, status, err := i.svc.Create(ctx, service.CreateParams{
		Title:         input.Title,
		Author:        input.Author,
		Format:        domain.Format(input.Format),
		TotalQuantity: input.TotalQuantity,
		DeadlineDate:  input.DeadlineDate,
		InitialStatus: domain.Status(input.InitialStatus),
		PDFPath:       input.PDFPath,
		Source:        input.Source,
	})
	if err != nil {
		return dto.DeadlineOutput{}, err
	}
	return toDeadlineOutput(deadline, status, 0), nil
}

func (i *Interactor) LogProgress(ctx context.Context, input dto.LogProgressInput) (dto.ProgressOutput, error) {
	entry, activated, err := i.svc.LogProgress(ctx, input.DeadlineID, input.CurrentProgress, input.IgnoreInCalcs)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return dto.ProgressOutput{Entry: toProgressOutput(entry), Activated: activated}, nil
}

func (i *Interactor) ChangeStatus(ctx context.Context, input dto.ChangeStatusInput) (dto.StatusOutput, error) {
	from, entry, err := i.svc.ChangeStatus(ctx, input.DeadlineID, domain.Status(input.Status), input.ReviewDueDate, input.Platforms)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{DeadlineID: entry.DeadlineID, From: string(from), To: string(entry.Status), CreatedAt: entry.CreatedAt}, nil
}

func (i *Interactor) UpdateReview(ctx context.Context, input dto.UpdateReviewInput) (dto.ReviewUpdateOutput, error) {
	review, completed, err := i.svc.UpdateReview(ctx, input.DeadlineID, service.ReviewUpdate{
		Platform:  input.Platform,
		Posted:    input.Posted,
		NotesDone: input.NotesDone,
	})
	if err != nil {
		return dto.ReviewUpdateOutput{}, err
	}
	return dto.ReviewUpdateOutput{DeadlineID: input.DeadlineID, Review: *toReviewOutput(&review), Completed: completed}, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.DeadlineOutput, error) {
	snap, err := i.svc.Snapshot(ctx, id)
	if err != nil {
		return dto.DeadlineOutput{}, err
	}
	return toDeadlineOutput(snap.Deadline, snap.Status(), snap.CurrentProgress()), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.DeadlineOutput, error) {
	snaps, err := i.svc.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeadlineOutput, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toDeadlineOutput(snap.Deadline, snap.Status(), snap.CurrentProgress()))
	}
	return out, nil
}

func (i *Interactor) Ledger(ctx context.Context, id string) (dto.LedgerOutput, error) {
	snap, err := i.svc.Snapshot(ctx, id)
	if err != nil {
		return dto.LedgerOutput{}, err
	}
	return toLedgerOutput(snap), nil
}

func (i *Interactor) ListLedgers(ctx context.Context) ([]dto.LedgerOutput, error) {
	snaps, err := i.svc.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerOutput, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toLedgerOutput(snap))
	}
	return out, nil
}

func toDeadlineOutput(d domain.Deadline, status domain.Status, current int) dto.DeadlineOutput {
	return dto.DeadlineOutput{
		ID:              d.ID,
		Title:           d.Title,
		Author:          d.Author,
		Format:          string(d.Format),
		TotalQuantity:   d.TotalQuantity,
		DeadlineDate:    d.DeadlineDate,
		CreatedAt:       d.CreatedAt,
		NotePath:        d.NotePath,
		Status:          string(status),
		CurrentProgress: current,
	}
}

func toProgressOutput(e domain.ProgressEntry) dto.ProgressEntryOutput {
	return dto.ProgressEntryOutput{
		ID:              e.ID,
		DeadlineID:      e.DeadlineID,
		CurrentProgress: e.CurrentProgress,
		CreatedAt:       e.CreatedAt,
		IgnoreInCalcs:   e.IgnoreInCalcs,
	}
}

func toReviewOutput(r *domain.ReviewTracking) *dto.ReviewOutput {
	if r == nil {
		return nil
	}
	platforms := make([]dto.ReviewPlatformOutput, 0, len(r.Platforms))
	for _, p := range r.Platforms {
		platforms = append(platforms, dto.ReviewPlatformOutput{Name: p.Name, Posted: p.Posted})
	}
	return &dto.ReviewOutput{
		ReviewDueDate: r.ReviewDueDate,
		NotesDone:     r.NotesDone,
		Platforms:     platforms,
		Satisfied:     r.Satisfied(),
	}
}

// toLedgerOutput keeps entries in insertion order; consumers derive the
// current view by timestamp.
func toLedgerOutput(snap service.Snapshot) dto.LedgerOutput {
	progress := make([]dto.ProgressEntryOutput, 0, len(snap.Progress))
	for _, e := range snap.Progress {
		progress = append(progress, toProgressOutput(e))
	}
	statuses := make([]dto.StatusEntryOutput, 0, len(snap.Statuses))
	for _, e := range snap.Statuses {
		statuses = append(statuses, dto.StatusEntryOutput{ID: e.ID, DeadlineID: e.DeadlineID, Status: string(e.Status), CreatedAt: e.CreatedAt})
	}
	return dto.LedgerOutput{
		Deadline: toDeadlineOutput(snap.Deadline, snap.Status(), snap.CurrentProgress()),
		Progress: progress,
		Statuses: statuses,
		Review:   toReviewOutput(snap.Deadline.Review),
	}
}
