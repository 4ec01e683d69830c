package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/silverbeer/swimcuttimes/config"
	"github.com/silverbeer/swimcuttimes/db"
	"github.com/silverbeer/swimcuttimes/repositories"
	"github.com/silverbeer/swimcuttimes/services"
)

// app bundles the service layer for CLI commands, sharing one database
// connection across a command invocation.
type app struct {
	db     *sql.DB
	logger *slog.Logger

	importService   services.ImportService
	standardService services.TimeStandardService
	visionService   services.VisionService
}

func newApp() (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	swimmerRepo := repositories.NewPostgresSwimmerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	meetRepo := repositories.NewPostgresMeetRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	swimTimeRepo := repositories.NewPostgresSwimTimeRepository(dbConn)
	standardRepo := repositories.NewPostgresTimeStandardRepository(dbConn)

	return &app{
		db:              dbConn,
		logger:          logger,
		importService:   services.NewImportService(swimmerRepo, meetRepo, teamRepo, eventRepo, swimTimeRepo, logger),
		standardService: services.NewTimeStandardService(standardRepo, eventRepo, logger),
		visionService:   services.NewVisionService(cfg.OpenAIAPIKey, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("error", err))
	}
}

func printValidation(result *services.ValidationResult) {
	for _, issue := range result.Issues {
		fmt.Printf("row %d [%s] %s: %s\n", issue.Row, issue.Severity, issue.Field, issue.Message)
	}
}

func printImportResult(result *services.ImportResult) {
	for _, item := range result.Items {
		fmt.Printf("row %d %s: %s\n", item.Row, item.Action, item.Message)
	}
	fmt.Println(result.Summary())
}
