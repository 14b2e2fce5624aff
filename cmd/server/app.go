package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/internbook/internbook-api/internal/api/middleware"
	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/platform/metrics"
	"github.com/internbook/internbook-api/internal/platform/postgres"
	"github.com/internbook/internbook-api/internal/service"
	"github.com/internbook/internbook-api/internal/service/auth"
	"github.com/internbook/internbook-api/internal/store"
)

// application holds the dependencies of one serving process.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	tokens   auth.TokenService
	gate     *middleware.Gate
	holidays store.HolidayStore
	interns  service.InternService
	bookings service.BookingService
}

// newApplication wires stores, services and the request gate around db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	return newApplicationWithTokens(cfg, logger, db, tokens)
}

func newApplicationWithTokens(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	tokens auth.TokenService,
) (*application, error) {
	internStore := postgres.NewPostgresInternStore(db, logger)
	bookingStore := postgres.NewPostgresBookingStore(db, logger)
	holidayStore := postgres.NewPostgresHolidayStore(db, logger)

	passwords := auth.NewBcryptVerifier(cfg.Auth.BCryptCost)
	interns, err := service.NewInternService(internStore, passwords, passwords, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create intern service: %w", err)
	}

	bookings, err := service.NewBookingService(bookingStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking service: %w", err)
	}

	m := metrics.New()

	return &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		metrics:  m,
		tokens:   tokens,
		gate:     middleware.NewGate(tokens, middleware.WithDecisionRecorder(m)),
		holidays: holidayStore,
		interns:  interns,
		bookings: bookings,
	}, nil
}

// cleanup releases the application's resources.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}
