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

	"github.com/silverbeer/swimcuttimes/config"
	"github.com/silverbeer/swimcuttimes/db"
	"github.com/silverbeer/swimcuttimes/handlers"
	"github.com/silverbeer/swimcuttimes/live"
	"github.com/silverbeer/swimcuttimes/middleware"
	"github.com/silverbeer/swimcuttimes/repositories"
	api "github.com/silverbeer/swimcuttimes/routes"
	"github.com/silverbeer/swimcuttimes/services"
	"github.com/silverbeer/swimcuttimes/storage"
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	swimmerRepo := repositories.NewPostgresSwimmerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	meetRepo := repositories.NewPostgresMeetRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	swimTimeRepo := repositories.NewPostgresSwimTimeRepository(dbConn)
	standardRepo := repositories.NewPostgresTimeStandardRepository(dbConn)
	followRepo := repositories.NewPostgresFollowRepository(dbConn)
	suitModelRepo := repositories.NewPostgresSuitModelRepository(dbConn)
	swimmerSuitRepo := repositories.NewPostgresSwimmerSuitRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	swimmerService := services.NewSwimmerService(swimmerRepo)
	teamService := services.NewTeamService(teamRepo)
	meetService := services.NewMeetService(meetRepo)
	swimTimeService := services.NewSwimTimeService(swimTimeRepo, swimmerRepo, eventRepo, standardRepo)
	standardService := services.NewTimeStandardService(standardRepo, eventRepo, logger)
	visionService := services.NewVisionService(cfg.OpenAIAPIKey, logger)
	importService := services.NewImportService(swimmerRepo, meetRepo, teamRepo, eventRepo, swimTimeRepo, logger)
	followService := services.NewFollowService(followRepo, swimmerRepo)
	suitService := services.NewSuitService(suitModelRepo, swimmerSuitRepo)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	swimmerHandler := handlers.NewSwimmerHandler(swimmerService, swimTimeService)
	teamHandler := handlers.NewTeamHandler(teamService)
	meetHandler := handlers.NewMeetHandler(meetService, swimTimeService)
	eventHandler := handlers.NewEventHandler(eventRepo)
	swimTimeHandler := handlers.NewSwimTimeHandler(swimTimeService)
	standardHandler := handlers.NewStandardHandler(standardService, visionService, cloudflareUploader, logger)
	importHandler := handlers.NewImportHandler(importService, wsHub)
	suitHandler := handlers.NewSuitHandler(suitService)
	followHandler := handlers.NewFollowHandler(followService)
	healthHandler := handlers.NewHealthHandler(dbConn)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		swimmerHandler,
		teamHandler,
		meetHandler,
		eventHandler,
		swimTimeHandler,
		standardHandler,
		importHandler,
		suitHandler,
		followHandler,
		healthHandler,
		webSocketHandler,
	)
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
