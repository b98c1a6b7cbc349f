package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"pacekeeper/internal/modules/pace/domain"
	paceout "pacekeeper/internal/modules/pace/port/out"
	"pacekeeper/internal/platform/caldate"
	"pacekeeper/internal/platform/clock"
	apperrors "pacekeeper/internal/platform/errors"
)

// Computation is one full pass of the engine over every ledger.
type Computation struct {
	Results    []domain.Result
	Pages      domain.UserPace
	Minutes    domain.UserPace
	ComputedAt time.Time
}

func (c Computation) clone() Computation {
	c.Results = slices.Clone(c.Results)
	return c
}

type PaceService struct {
	clock     clock.Clock
	source    paceout.LedgerSource
	projector paceout.ResultProjector
	settings  domain.Settings
	cache     *lru.Cache[string, Computation]
	logger    *zap.Logger
}

func NewPaceService(clock clock.Clock, source paceout.LedgerSource, projector paceout.ResultProjector, settings domain.Settings, cacheSize int, logger *zap.Logger) (*PaceService, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, Computation](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaceService{clock: clock, source: source, projector: projector, settings: settings, cache: cache, logger: logger}, nil
}

// Compute runs the engine over every ledger. Results are cached per ledger
// content and local calendar day, so a repeated call on the same day with
// an unchanged ledger reuses the previous pass.
func (s *PaceService) Compute(ctx context.Context) (Computation, error) {
	ledgers, err := s.source.Ledgers(ctx)
	if err != nil {
		return Computation{}, err
	}
	now := s.clock.Now()
	key := cacheKey(ledgers, now)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("pace cache hit", zap.String("key", key[:12]))
		return cached.clone(), nil
	}

	tracks := make([]domain.Track, 0, len(ledgers))
	for _, l := range ledgers {
		if l.Active() {
			tracks = append(tracks, l.Track())
		}
	}
	comp := Computation{
		Pages:      domain.CalculateUserPace(domain.UnitPages, tracks, now.Location(), s.settings),
		Minutes:    domain.CalculateUserPace(domain.UnitMinutes, tracks, now.Location(), s.settings),
		Results:    make([]domain.Result, 0, len(ledgers)),
		ComputedAt: now,
	}
	for _, l := range ledgers {
		pace := comp.Pages
		if domain.UnitFor(l.Deadline.Format) == domain.UnitMinutes {
			pace = comp.Minutes
		}
		comp.Results = append(comp.Results, domain.Calculate(domain.Input{
			Deadline: l.Deadline,
			Progress: l.Progress,
			Statuses: l.Statuses,
			UserPace: pace,
			Now:      now,
		}))
	}
	for _, p := range []domain.UserPace{comp.Pages, comp.Minutes} {
		if p.Reliability == domain.ReliabilityDefaultFallback {
			s.logger.Debug("pace uses default", zap.String("unit", string(p.Unit)), zap.Int("active_days", p.ActiveDays))
		}
	}
	s.cache.Add(key, comp)
	return comp.clone(), nil
}

func (s *PaceService) Calculate(ctx context.Context, deadlineID string) (domain.Result, error) {
	comp, err := s.Compute(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	for _, r := range comp.Results {
		if r.DeadlineID == deadlineID {
			return r, nil
		}
	}
	return domain.Result{}, fmt.Errorf("deadline %s: %w", deadlineID, apperrors.ErrNotFound)
}

func (s *PaceService) Rank(ctx context.Context, limit int) ([]domain.Result, error) {
	comp, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Rank(comp.Results, limit), nil
}

// Project rebuilds the results projection from scratch in one replace.
func (s *PaceService) Project(ctx context.Context) (int, time.Time, error) {
	if s.projector == nil {
		return 0, time.Time{}, fmt.Errorf("result projector is not configured")
	}
	comp, err := s.Compute(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}
	if err := s.projector.Replace(ctx, comp.Results, comp.ComputedAt); err != nil {
		return 0, time.Time{}, err
	}
	s.logger.Info("results projected", zap.Int("count", len(comp.Results)), zap.Time("computed_at", comp.ComputedAt))
	return len(comp.Results), comp.ComputedAt, nil
}

// cacheKey hashes every field the engine reads, plus today's date and zone.
func cacheKey(ledgers []domain.Ledger, now time.Time) string {
	h := sha256.New()
	writeLedgers(h, ledgers)
	return hex.EncodeToString(h.Sum(nil)) + "|" + caldate.Today(now).String() + "|" + now.Location().String()
}

func writeLedgers(w io.Writer, ledgers []domain.Ledger) {
	for _, l := range ledgers {
		d := l.Deadline
		fmt.Fprintf(w, "D|%s|%s|%s|%d|%s\n", d.ID, strings.ReplaceAll(d.Title, "\n", " "), d.Format, d.TotalQuantity, d.DeadlineDate)
		for _, e := range l.Progress {
			fmt.Fprintf(w, "P|%s|%d|%d|%t\n", e.ID, e.CurrentProgress, e.CreatedAt.UnixNano(), e.IgnoreInCalcs)
		}
		for _, e := range l.Statuses {
			fmt.Fprintf(w, "S|%s|%s|%d\n", e.ID, e.Status, e.CreatedAt.UnixNano())
		}
	}
}
