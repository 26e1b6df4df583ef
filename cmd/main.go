package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/prediction-league/broadcast"
	"github.com/Dosada05/prediction-league/config"
	"github.com/Dosada05/prediction-league/db"
	"github.com/Dosada05/prediction-league/handlers"
	"github.com/Dosada05/prediction-league/provider"
	"github.com/Dosada05/prediction-league/repositories"
	api "github.com/Dosada05/prediction-league/routes"
	"github.com/Dosada05/prediction-league/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

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

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()

	hub := broadcast.NewHub(logger)
	go hub.Run(hubCtx)
	logger.Info("broadcast hub started")

	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	betRepo := repositories.NewPostgresBetRepository(dbConn)
	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	txManager := repositories.NewTxManager(dbConn)
	logger.Info("repositories initialized")

	fixtureProvider := provider.NewHTTPClient(provider.HTTPClientConfig{
		BaseURL: cfg.Sync.ProviderBaseURL,
		APIKey:  cfg.Sync.ProviderAPIKey,
		Timeout: cfg.Sync.ProviderTimeout,
	})

	scoringService := services.NewScoringService(betRepo, competitionRepo, logger)
	syncService := services.NewSyncService(
		matchRepo,
		sportRepo,
		txManager,
		fixtureProvider,
		scoringService,
		hub,
		services.SyncPolicy{
			NameMatchThreshold: cfg.Sync.NameMatchThreshold,
			IDBoundSlop:        cfg.Sync.IDBoundSlop,
			NameMatchSlop:      cfg.Sync.NameMatchSlop,
		},
		logger,
	)
	logger.Info("services initialized")

	syncHandler := handlers.NewSyncHandler(syncService, scoringService, hub)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, syncHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
