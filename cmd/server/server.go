package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/platform/netutil"
)

func setupProcessLogger(cfg *config.Config, r role, meta ...slog.Attr) (*slog.Logger, error) {
	attrs := append([]slog.Attr{slog.String("role", r.String())}, meta...)
	log, err := logger.Setup(cfg.Server, attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return log, nil
}

// runServer serves the API until ctx is cancelled. Workers share the port
// with their siblings through SO_REUSEPORT.
func runServer(ctx context.Context, cfg *config.Config, r role, meta ...slog.Attr) error {
	log, err := setupProcessLogger(cfg, r, meta...)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	ln, err := netutil.Listen(ctx, fmt.Sprintf(":%d", cfg.Server.Port), r == roleWorker)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", cfg.Server.Port, err)
	}

	return app.serve(ctx, ln)
}

// serve runs the HTTP server on ln until ctx is cancelled or the server
// fails, then shuts it down gracefully.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.String("addr", ln.Addr().String()))
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
