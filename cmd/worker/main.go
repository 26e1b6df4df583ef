// The kickoff scheduler worker. Started once per deployment alongside any
// number of API instances; the advisory lock guarantees at most one leader.
// A non-leader or signalled process exits 0, so a supervisor never treats
// either as a failure.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Dosada05/prediction-league/config"
	"github.com/Dosada05/prediction-league/db"
	"github.com/Dosada05/prediction-league/repositories"
	"github.com/Dosada05/prediction-league/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	lock := db.NewAdvisoryLock(dbConn, cfg.Scheduler.LockName)
	notifier := scheduler.NewHTTPNotifier(cfg.Scheduler.NotifyURL, cfg.Scheduler.NotifyTimeout, logger)

	worker := scheduler.NewWorker(
		matchRepo,
		competitionRepo,
		lock,
		notifier,
		scheduler.Config{
			GracePeriod:  cfg.Scheduler.GracePeriod,
			SafetyWakeup: cfg.Scheduler.SafetyWakeup,
		},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := worker.Run(ctx); err != nil {
		if errors.Is(err, scheduler.ErrNotLeader) {
			logger.Info("leader lock held by another instance, exiting")
			os.Exit(0)
		}
		logger.Error("scheduler worker failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("scheduler worker exited")
}
