package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/justsurfingit/hh-vacancy-tracker/internal/config"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/database"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/services"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/hh"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
	"gorm.io/gorm"
)

// Replaced in tests.
var (
	createDatabase = database.CreateDatabase
	connect        = database.Connect
)

// App wires the services shared by the console and the HTTP API.
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Vacancies *services.VacancyService
	Ingest    *services.IngestService
	Log       *logging.Logger
}

// Bootstrap makes sure the database and its tables exist and builds the
// services on top of a single connection. Creating the database is best
// effort: a failure is logged and connecting is attempted anyway.
// cfg is expected to have passed Validate.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logging.Logger) (*App, error) {
	mode := cfg.Ingest.Mode

	dbName := cfg.Postgres.DBName
	created, err := createDatabase(ctx, cfg.Postgres, dbName)
	switch {
	case err != nil:
		log.Warn("could not ensure database exists, continuing", "database", dbName, "err", err)
	case created:
		log.Info("database created", "database", dbName)
	default:
		log.Info("database already exists", "database", dbName)
	}

	db, err := connect(cfg.Postgres, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.Info("database connection established", "database", dbName)

	vacancies := services.NewVacancyService(db, mode)
	if err := vacancies.CreateTables(ctx); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("app: %w", err)
	}
	log.Info("tables ready")

	client := hh.NewClient(hh.Config{
		BaseURL:    cfg.API.BaseURL,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Logger:     log.With("component", "hh"),
	})

	employersFile := cfg.Ingest.EmployersFile
	ingest := services.NewIngestService(
		client,
		vacancies,
		func() ([]string, error) { return config.ReadEmployerIDs(employersFile) },
		log.With("component", "ingest", "mode", string(mode)),
	)

	return &App{
		Config:    cfg,
		DB:        db,
		Vacancies: vacancies,
		Ingest:    ingest,
		Log:       log,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() {
	closeDB(a.DB)
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
