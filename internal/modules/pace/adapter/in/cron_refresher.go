package in

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	pacein "pacekeeper/internal/modules/pace/port/in"
)

// CronRefresher re-projects results on a schedule until its context ends.
type CronRefresher struct {
	usecase  pacein.Usecase
	schedule string
	location *time.Location
	logger   *zap.Logger
}

func NewCronRefresher(usecase pacein.Usecase, schedule string, location *time.Location, logger *zap.Logger) *CronRefresher {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronRefresher{usecase: usecase, schedule: schedule, location: location, logger: logger}
}

// ValidateSchedule accepts standard five-field specs and descriptors such as
// "@every 1h" or "@daily".
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return nil
}

// Run projects once immediately, then on every tick. It blocks until ctx is
// cancelled and waits for a running refresh to finish.
func (r *CronRefresher) Run(ctx context.Context) error {
	if err := ValidateSchedule(r.schedule); err != nil {
		return err
	}
	c := cron.New(cron.WithLocation(r.location))
	if _, err := c.AddFunc(r.schedule, func() { r.refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	r.refresh(ctx)
	c.Start()
	r.logger.Info("refresher started", zap.String("schedule", r.schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("refresher stopped")
	return nil
}

func (r *CronRefresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	out, err := r.usecase.Project(ctx)
	if err != nil {
		r.logger.Warn("refresh failed", zap.Error(err))
		return
	}
	r.logger.Info("refresh complete", zap.Int("projected", out.Projected))
}
