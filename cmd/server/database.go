package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/platform/postgres"
	"github.com/internbook/internbook-api/internal/redact"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// openDatabase opens the connection pool and checks it with a ping.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns))
	return db, nil
}

// runMigrations runs a migration command against the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, command string) error {
	log, err := setupProcessLogger(cfg, roleServer)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch command {
	case "status":
		return postgres.MigrationStatus(ctx, db, log)
	default:
		return postgres.Migrate(ctx, db, log)
	}
}
