package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the gorm handle to the tracker database. The handle is
// meant to live for the whole process and be passed to whoever needs it.
func Connect(params config.PostgresParams, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(params.DSN(params.DBName)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(GormLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect to %s: %w", params.DBName, err)
	}
	return db, nil
}

// CreateDatabase creates database name unless pg_database already lists it.
// It connects to the administrative database for the duration of the call.
// The lookup is not atomic with the CREATE; concurrent creators may race.
func CreateDatabase(ctx context.Context, params config.PostgresParams, name string) (bool, error) {
	conn, err := pgx.Connect(ctx, params.DSN(config.AdminDatabase))
	if err != nil {
		return false, fmt.Errorf("database: connect to %s: %w", config.AdminDatabase, err)
	}
	defer func() {
		_ = conn.Close(context.Background())
	}()

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database: look up %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("database: create %s: %w", name, err)
	}

	return true, nil
}

// GormLogLevel keeps gorm quiet unless the application runs at debug.
func GormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return gormlogger.Info
	case "error", "fatal", "panic":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
