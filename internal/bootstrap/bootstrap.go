package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	deadlineinadapter "pacekeeper/internal/modules/deadline/adapter/in"
	deadlineoutadapter "pacekeeper/internal/modules/deadline/adapter/out"
	deadlineservice "pacekeeper/internal/modules/deadline/service"
	deadlineusecase "pacekeeper/internal/modules/deadline/usecase"
	paceinadapter "pacekeeper/internal/modules/pace/adapter/in"
	paceoutadapter "pacekeeper/internal/modules/pace/adapter/out"
	pacedomain "pacekeeper/internal/modules/pace/domain"
	paceservice "pacekeeper/internal/modules/pace/service"
	paceusecase "pacekeeper/internal/modules/pace/usecase"
	"pacekeeper/internal/platform/clock"
	"pacekeeper/internal/platform/config"
	"pacekeeper/internal/platform/id"
	"pacekeeper/internal/platform/logging"
)

type App struct {
	DeadlineCLI deadlineinadapter.CLIHandler
	PaceCLI     paceinadapter.CLIHandler
	Refresher   *paceinadapter.CronRefresher
	Logger      *zap.Logger
}

func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	clk := clock.SystemClock{Location: cfg.Location}
	ids := id.UUID{}

	ledger, err := deadlineoutadapter.NewSQLiteLedgerStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new ledger store: %w", err)
	}
	deadlineUC := deadlineusecase.NewInteractor(deadlineservice.NewDeadlineService(
		clk,
		ids,
		deadlineoutadapter.NewVaultDeadlineStore(cfg.VaultPath),
		ledger,
		deadlineoutadapter.NewLocalPDFPageCounter(),
		logger.Named("deadline"),
	))

	projector, err := paceoutadapter.NewSQLiteResultProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new result projector: %w", err)
	}
	settings := pacedomain.Settings{
		WindowDays:           cfg.Pace.WindowDays,
		MinActiveDays:        cfg.Pace.MinActiveDays,
		DefaultPagesPerDay:   cfg.Pace.DefaultPagesPerDay,
		DefaultMinutesPerDay: cfg.Pace.DefaultMinutesPerDay,
	}
	paceSvc, err := paceservice.NewPaceService(
		clk,
		paceoutadapter.NewDeadlineLedgerAdapter(deadlineUC),
		projector,
		settings,
		cfg.Cache.Size,
		logger.Named("pace"),
	)
	if err != nil {
		return nil, err
	}
	paceUC := paceusecase.NewInteractor(paceSvc)

	return &App{
		DeadlineCLI: deadlineinadapter.NewCLIHandler(deadlineUC),
		PaceCLI:     paceinadapter.NewCLIHandler(paceUC),
		Refresher:   paceinadapter.NewCronRefresher(paceUC, cfg.Refresh.Schedule, cfg.Location, logger.Named("refresh")),
		Logger:      logger,
	}, nil
}
