package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"crashlens/adapters/postgres"
	"crashlens/adapters/tabular"
	"crashlens/app"
	"crashlens/internal/config"
	"crashlens/internal/errors"
	"crashlens/internal/observability"
	"crashlens/ports"
	"crashlens/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	metrics := observability.NewMetrics()

	repo, err := initRunHistory(appConfig)
	if err != nil {
		log.Fatalf("Run history error: %v", err)
	}

	service := app.NewAnalysisService(
		tabular.NewDataReader(appConfig.Data.PrimaryFile),
		tabular.NewDataReader(appConfig.Data.SupplementalFile),
		tabular.NewDataReader(appConfig.Data.AuthorityFile),
		metrics,
		repo,
	)

	server := ui.NewServer(service, repo, ui.Config{
		MetricsEnabled: appConfig.Metrics.Enabled,
	})
	if err := server.Start(appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initRunHistory connects the optional run-history store. Without a
// DATABASE_URL the dashboard runs fully in memory.
func initRunHistory(appConfig *config.Config) (ports.RunRepository, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "failed to prepare run history schema")
	}
	return postgres.NewRunRepository(db), nil
}
