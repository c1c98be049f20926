package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/fathoor/custodia/internal/adapter/compressor"
	"github.com/fathoor/custodia/internal/adapter/notifier"
	"github.com/fathoor/custodia/internal/adapter/storage"
	"github.com/fathoor/custodia/internal/config"
	"github.com/fathoor/custodia/internal/domain"
	"github.com/fathoor/custodia/internal/infrastructure/logger"
	"github.com/fathoor/custodia/internal/infrastructure/scheduler"
	"github.com/fathoor/custodia/internal/usecase"
)

// backupRunner and retentionSweeper are the two independently-progressing
// tasks of one tick; App depends on them as interfaces so the tick lifecycle
// stays testable.
type backupRunner interface {
	Execute(ctx context.Context, targets []domain.DatabaseTarget) domain.RunReport
}

type retentionSweeper interface {
	Execute(ctx context.Context) error
}

type runNotifier interface {
	Notify(message string) error
}

type App struct {
	config      *config.Config
	logger      *logger.Logger
	scheduler   *scheduler.Scheduler
	targets     []domain.DatabaseTarget
	backupUC    backupRunner
	retentionUC retentionSweeper
	notifier    runNotifier
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)

	targets := make([]domain.DatabaseTarget, 0, len(cfg.Databases))
	for _, uri := range cfg.Databases {
		target, err := domain.ParseTarget(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid database uri: %w", err)
		}
		targets = append(targets, target)
		log.Infof("✓ Backup target configured: %s", target)
	}

	store, err := newObjectStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:      cfg,
		logger:      log,
		scheduler:   scheduler.New(),
		targets:     targets,
		backupUC:    usecase.NewBackup(store, compressor.NewTarGzip(), log, cfg.Backup.ScratchDir),
		retentionUC: usecase.NewRetention(store, log, cfg.Backup.RetentionDays),
	}

	if cfg.Notifications.Telegram.Enabled {
		tg, err := notifier.NewTelegram(&cfg.Notifications.Telegram)
		if err != nil {
			log.Errorf("Failed to initialize Telegram notifier: %v", err)
		} else {
			log.Infof("✓ Telegram notifications enabled")
			a.notifier = tg
		}
	}

	return a, nil
}

func newObjectStorage(cfg *config.Config, log *logger.Logger) (domain.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "s3":
		store, err := storage.NewS3(&cfg.Storage.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		log.Infof("✓ S3 storage ready (bucket: %s)", cfg.Storage.S3.Bucket)
		return store, nil

	case "gdrive":
		store, err := storage.NewGDrive(&cfg.Storage.GDrive)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Drive storage: %w", err)
		}
		log.Infof("✓ Google Drive storage ready (folder: %s)", cfg.Storage.GDrive.FolderID)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage provider: %q", cfg.Storage.Provider)
	}
}

// runTick executes one combined job: the backup orchestrator and the
// retention sweeper progress independently and both are awaited before the
// tick counts as finished.
func (a *App) runTick(ctx context.Context) {
	var (
		wg     sync.WaitGroup
		report domain.RunReport
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		report = a.backupUC.Execute(ctx, a.targets)
	}()
	go func() {
		defer wg.Done()
		_ = a.retentionUC.Execute(ctx)
	}()
	wg.Wait()

	a.notify(report)
}

func (a *App) notify(report domain.RunReport) {
	if a.notifier == nil || len(report) == 0 {
		return
	}

	message := fmt.Sprintf("Backup run finished: %d succeeded, %d failed",
		report.Succeeded(), report.Failed())
	for _, result := range report {
		if result.Err != nil {
			message += fmt.Sprintf("\n✗ %s: %v", result.Target, result.Err)
		}
	}

	if err := a.notifier.Notify(message); err != nil {
		a.logger.Errorf("Failed to send notification: %v", err)
	}
}

func (a *App) Run(ctx context.Context) error {
	scheduled := a.config.Backup.Schedule != ""

	if scheduled {
		if err := a.scheduler.AddJob(a.config.Backup.Schedule, func(ctx context.Context) error {
			a.logger.Infof("=== Scheduled backup tick ===")
			a.runTick(ctx)
			return nil
		}); err != nil {
			return fmt.Errorf("failed to schedule backups: %w", err)
		}
		a.logger.Infof("Backups scheduled: %s", a.config.Backup.Schedule)
	}

	if a.config.Backup.RunOnStart {
		a.logger.Infof("=== Startup backup tick ===")
		a.runTick(ctx)
	}

	if !scheduled && !a.config.Backup.RunOnStart {
		a.logger.Warnf("No schedule configured and run_on_start disabled, nothing to do")
	}

	if scheduled {
		a.scheduler.Start()
		a.logger.Infof("Scheduler started")
	}

	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.scheduler.Stop()
	a.logger.Close()
}
