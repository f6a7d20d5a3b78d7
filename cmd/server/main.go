package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopreports/internal/config"
	"github.com/mamadbah2/shopreports/internal/repository/mongodb"
	"github.com/mamadbah2/shopreports/internal/repository/sheets"
	"github.com/mamadbah2/shopreports/internal/scheduler"
	"github.com/mamadbah2/shopreports/internal/server/handlers"
	"github.com/mamadbah2/shopreports/internal/server/router"
	reportingsvc "github.com/mamadbah2/shopreports/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/shopreports/pkg/clients/whatsapp"
	"github.com/mamadbah2/shopreports/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), time.Minute)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB, baseLogger.Named("repo.mongodb"))
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	reportingSvc := reportingsvc.NewService(mongoRepo, loc, baseLogger.Named("svc.reporting"))

	if cfg.Reporting.ScheduleEnabled {
		var exporter scheduler.SnapshotExporter
		if cfg.Sheets.Enabled() {
			sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
			if err != nil {
				baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
			}
			exporter = sheets.NewSnapshotExporter(sheetsRepo, cfg.Sheets.Range)
			baseLogger.Info("sheets export enabled")
		}

		var notifier scheduler.Notifier
		if cfg.WhatsApp.Enabled() {
			notifier = whatsappclient.NewNotifier(cfg.WhatsApp)
			baseLogger.Info("whatsapp notifications enabled")
		} else {
			baseLogger.Warn("whatsapp settings missing, scheduled summaries will not be sent")
		}

		sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, exporter, notifier, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to schedule snapshot report", zap.Error(err))
		}
		defer sched.Stop()
	}

	reportHandler := handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports"))
	engine := router.New(reportHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
