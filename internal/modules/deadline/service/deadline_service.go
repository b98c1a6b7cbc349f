package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pacekeeper/internal/modules/deadline/domain"
	deadlineout "pacekeeper/internal/modules/deadline/port/out"
	"pacekeeper/internal/platform/caldate"
	"pacekeeper/internal/platform/clock"
	apperrors "pacekeeper/internal/platform/errors"
	"pacekeeper/internal/platform/id"
	"pacekeeper/internal/platform/slug"
)

type CreateParams struct {
	Title         string
	Author        string
	Format        domain.Format
	TotalQuantity int
	DeadlineDate  string
	InitialStatus domain.Status
	PDFPath       string
	Source        string
}

// Snapshot is one deadline together with its full ledger.
type Snapshot struct {
	Deadline domain.Deadline
	Progress []domain.ProgressEntry
	Statuses []domain.StatusEntry
}

func (s Snapshot) Status() domain.Status { return domain.LatestStatus(s.Statuses) }

func (s Snapshot) CurrentProgress() int { return domain.CurrentProgress(s.Progress) }

type DeadlineService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  deadlineout.DeadlineStore
	ledger deadlineout.LedgerStore
	pages  deadlineout.PageCounter
	logger *zap.Logger
}

func NewDeadlineService(clock clock.Clock, idGen id.Generator, store deadlineout.DeadlineStore, ledger deadlineout.LedgerStore, pages deadlineout.PageCounter, logger *zap.Logger) *DeadlineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeadlineService{clock: clock, idGen: idGen, store: store, ledger: ledger, pages: pages, logger: logger}
}

func (s *DeadlineService) Create(ctx context.Context, params CreateParams) (domain.Deadline, domain.Status, error) {
	if err := params.Format.Validate(); err != nil {
		return domain.Deadline{}, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	initial := params.InitialStatus
	if initial == "" {
		initial = domain.StatusPending
	}
	if !domain.InitialStatusAllowed(initial) {
		return domain.Deadline{}, "", fmt.Errorf("%w: initial status must be pending or reading, got %q", apperrors.ErrInvalidInput, initial)
	}
	total := params.TotalQuantity
	if total == 0 && strings.TrimSpace(params.PDFPath) != "" {
		if params.Format.IsAudio() {
			return domain.Deadline{}, "", fmt.Errorf("%w: page count does not apply to audio", apperrors.ErrInvalidInput)
		}
		if s.pages == nil {
			return domain.Deadline{}, "", fmt.Errorf("page counter is not configured")
		}
		count, err := s.pages.CountPages(ctx, params.PDFPath)
		if err != nil {
			return domain.Deadline{}, "", err
		}
		total = count
	}
	date, ok := caldate.ParseServerDateOnly(params.DeadlineDate)
	if !ok {
		return domain.Deadline{}, "", fmt.Errorf("%w: deadline date %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, params.DeadlineDate)
	}

	now := s.clock.Now()
	deadlineID := s.idGen.New()
	title := strings.TrimSpace(params.Title)
	deadline := domain.Deadline{
		ID:            deadlineID,
		Title:         title,
		Author:        strings.TrimSpace(params.Author),
		Format:        params.Format,
		TotalQuantity: total,
		DeadlineDate:  date.String(),
		CreatedAt:     now,
		Source:        strings.TrimSpace(params.Source),
		Slug:          slug.Unique(title, deadlineID),
	}
	if err := deadline.Validate(); err != nil {
		return domain.Deadline{}, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	path, err := s.store.Save(ctx, domain.DeadlineDocument{Deadline: deadline})
	if err != nil {
		return domain.Deadline{}, "", err
	}
	deadline.NotePath = path
	if err := s.ledger.AppendStatus(ctx, domain.StatusEntry{
		ID:         s.idGen.New(),
		DeadlineID: deadline.ID,
		Status:     initial,
		CreatedAt:  now,
	}); err != nil {
		return domain.Deadline{}, "", err
	}
	s.logger.Info("deadline created",
		zap.String("deadline_id", deadline.ID),
		zap.String("format", string(deadline.Format)),
		zap.Int("total_quantity", deadline.TotalQuantity),
		zap.String("status", string(initial)),
	)
	return deadline, initial, nil
}

// LogProgress appends a cumulative progress value. A pending deadline is
// activated first so the reading entry precedes the progress entry.
func (s *DeadlineService) LogProgress(ctx context.Context, deadlineID string, value int, ignore bool) (domain.ProgressEntry, bool, error) {
	if value < 0 {
		return domain.ProgressEntry{}, false, fmt.Errorf("%w: progress must be non-negative", apperrors.ErrInvalidInput)
	}
	if _, err := s.store.FindByID(ctx, deadlineID); err != nil {
		return domain.ProgressEntry{}, false, err
	}
	statuses, err := s.ledger.Statuses(ctx, deadlineID)
	if err != nil {
		return domain.ProgressEntry{}, false, err
	}
	now := s.clock.Now()
	activated := false
	if domain.LatestStatus(statuses) == domain.StatusPending {
		if err := s.ledger.AppendStatus(ctx, domain.StatusEntry{
			ID:         s.idGen.New(),
			DeadlineID: deadlineID,
			Status:     domain.StatusReading,
			CreatedAt:  now,
		}); err != nil {
			return domain.ProgressEntry{}, false, err
		}
		activated = true
	}
	entry := domain.ProgressEntry{
		ID:              s.idGen.New(),
		DeadlineID:      deadlineID,
		CurrentProgress: value,
		CreatedAt:       now,
		IgnoreInCalcs:   ignore,
	}
	if err := s.ledger.AppendProgress(ctx, entry); err != nil {
		return domain.ProgressEntry{}, false, err
	}
	s.logger.Debug("progress appended",
		zap.String("deadline_id", deadlineID),
		zap.Int("current_progress", value),
		zap.Bool("ignore_in_calcs", ignore),
		zap.Bool("activated", activated),
	)
	return entry, activated, nil
}

// ChangeStatus appends a status entry after checking the transition.
// Entering to_review attaches review tracking when none exists yet. The
// ledger entry is written before the note, so a failed note write never
// leaves review tracking on a deadline that did not change status.
func (s *DeadlineService) ChangeStatus(ctx context.Context, deadlineID string, to domain.Status, reviewDueDate string, platforms []string) (domain.Status, domain.StatusEntry, error) {
	doc, err := s.store.FindByID(ctx, deadlineID)
	if err != nil {
		return "", domain.StatusEntry{}, err
	}
	statuses, err := s.ledger.Statuses(ctx, deadlineID)
	if err != nil {
		return "", domain.StatusEntry{}, err
	}
	from := domain.LatestStatus(statuses)
	if err := domain.ValidateTransition(from, to); err != nil {
		return "", domain.StatusEntry{}, err
	}
	now := s.clock.Now()
	var review *domain.ReviewTracking
	if to == domain.StatusToReview && doc.Deadline.Review == nil {
		review = &domain.ReviewTracking{CreatedAt: now}
		if strings.TrimSpace(reviewDueDate) != "" {
			due, ok := caldate.ParseServerDateOnly(reviewDueDate)
			if !ok {
				return "", domain.StatusEntry{}, fmt.Errorf("%w: review due date %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, reviewDueDate)
			}
			review.ReviewDueDate = due.String()
		}
		for _, p := range platforms {
			review.MarkPlatform(p, false)
		}
	}

	entry := domain.StatusEntry{ID: s.idGen.New(), DeadlineID: deadlineID, Status: to, CreatedAt: now}
	if err := s.ledger.AppendStatus(ctx, entry); err != nil {
		return "", domain.StatusEntry{}, err
	}
	s.logger.Info("status changed",
		zap.String("deadline_id", deadlineID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	if review != nil {
		doc.Deadline.Review = review
		if _, err := s.store.Save(ctx, doc); err != nil {
			s.logger.Warn("review tracking not saved", zap.String("deadline_id", deadlineID), zap.Error(err))
			return from, entry, fmt.Errorf("status recorded, save review tracking: %w", err)
		}
	}
	return from, entry, nil
}

type ReviewUpdate struct {
	Platform  string
	Posted    bool
	NotesDone *bool
}

// UpdateReview edits review flags. Once every obligation is met while the
// deadline sits in to_review, a complete entry is appended.
func (s *DeadlineService) UpdateReview(ctx context.Context, deadlineID string, update ReviewUpdate) (domain.ReviewTracking, bool, error) {
	doc, err := s.store.FindByID(ctx, deadlineID)
	if err != nil {
		return domain.ReviewTracking{}, false, err
	}
	statuses, err := s.ledger.Statuses(ctx, deadlineID)
	if err != nil {
		return domain.ReviewTracking{}, false, err
	}
	inReview := domain.LatestStatus(statuses) == domain.StatusToReview
	if doc.Deadline.Review == nil {
		if !inReview {
			return domain.ReviewTracking{}, false, fmt.Errorf("%w: deadline %s has no review tracking", apperrors.ErrInvalidInput, deadlineID)
		}
		// The note write failed after the status change; start tracking now.
		doc.Deadline.Review = &domain.ReviewTracking{CreatedAt: s.clock.Now()}
	}
	review := doc.Deadline.Review
	if update.NotesDone != nil {
		review.NotesDone = *update.NotesDone
	}
	review.MarkPlatform(update.Platform, update.Posted)
	if _, err := s.store.Save(ctx, doc); err != nil {
		return domain.ReviewTracking{}, false, err
	}

	if !review.Satisfied() || !inReview {
		return *review, false, nil
	}
	if err := s.ledger.AppendStatus(ctx, domain.StatusEntry{
		ID:         s.idGen.New(),
		DeadlineID: deadlineID,
		Status:     domain.StatusComplete,
		CreatedAt:  s.clock.Now(),
	}); err != nil {
		return domain.ReviewTracking{}, false, err
	}
	s.logger.Info("review obligations met", zap.String("deadline_id", deadlineID))
	return *review, true, nil
}

func (s *DeadlineService) Get(ctx context.Context, deadlineID string) (domain.Deadline, error) {
	doc, err := s.store.FindByID(ctx, deadlineID)
	if err != nil {
		return domain.Deadline{}, err
	}
	return doc.Deadline, nil
}

func (s *DeadlineService) List(ctx context.Context) ([]domain.Deadline, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Deadline, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Deadline)
	}
	return out, nil
}

func (s *DeadlineService) Snapshot(ctx context.Context, deadlineID string) (Snapshot, error) {
	deadline, err := s.Get(ctx, deadlineID)
	if err != nil {
		return Snapshot{}, err
	}
	progress, err := s.ledger.Progress(ctx, deadlineID)
	if err != nil {
		return Snapshot{}, err
	}
	statuses, err := s.ledger.Statuses(ctx, deadlineID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Deadline: deadline, Progress: progress, Statuses: statuses}, nil
}

// Snapshots reads the whole ledger once and pairs it with every deadline.
// Ledger rows for deadlines missing from the store are skipped.
func (s *DeadlineService) Snapshots(ctx context.Context) ([]Snapshot, error) {
	deadlines, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	log, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, Snapshot{Deadline: d, Progress: log.Progress(d.ID), Statuses: log.Statuses(d.ID)})
	}
	return out, nil
}
