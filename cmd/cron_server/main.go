package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/config"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/handler"
	"github.com/radhian/ledger-engine/infra/db"
	"github.com/radhian/ledger-engine/infra/locker"
	"github.com/radhian/ledger-engine/usecase/ledger"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
	Options  entity.AuditOptions
}

func (cfg CronWorkerConfig) startAuditWorker(ctx context.Context, h *handler.LedgerHandler, workerID int) {
	for {
		report, err := h.AuditExecution(ctx, cfg.Options)
		if err != nil {
			log.Warnf("[Worker %d] error: %s", workerID, err.Error())
		} else {
			log.Infof("[Worker %d] success: scanned %d, drifted %d, corrected %d",
				workerID, report.Scanned, len(report.Drifted), report.Corrected)
		}

		select {
		case <-ctx.Done():
			log.Infof("[Worker %d] stopped", workerID)
			return
		case <-time.After(cfg.Interval):
		}
	}
}

type App struct {
	DB     *gorm.DB
	Locker *locker.Locker
}

func (a *App) startCronWorker(ctx context.Context, cfg CronWorkerConfig) {
	var wg sync.WaitGroup

	// workers share one locker so they never audit the same account at once
	ledgerUc := ledger.NewLedgerUsecase(a.DB, ledger.WithLocker(a.Locker))
	h := handler.NewLedgerHandler(ledgerUc)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Infof("spawn [Worker %d]", workerID)
			cfg.startAuditWorker(ctx, h, workerID)
		}(i + 1)
	}
	wg.Wait()
}

func (a *App) Initialize(cfg *config.Config) error {
	config.ApplyLogging(cfg.Logging)

	var err error
	a.DB, err = db.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Migrate(a.DB); err != nil {
		return err
	}

	a.Locker = locker.New()
	return nil
}

func (a *App) RunServer(ctx context.Context, cfg *config.Config) {
	a.startCronWorker(ctx, CronWorkerConfig{
		Workers:  cfg.Audit.Workers,
		Interval: cfg.Audit.GetInterval(),
		Options: entity.AuditOptions{
			BatchSize:   cfg.Audit.BatchSize,
			AutoCorrect: cfg.Audit.AutoCorrect,
		},
	})
}

func main() {
	cfg, err := config.LoadConfig("ledger.toml", os.Getenv("LEDGER_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("cannot start cron server: %v", err)
	}
	defer app.DB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.RunServer(ctx, cfg)
}
