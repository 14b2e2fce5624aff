package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/platform/metrics"
	"github.com/internbook/internbook-api/internal/platform/netutil"
	"github.com/internbook/internbook-api/internal/supervisor"
)

// stopGrace is added to the worker shutdown timeout before the supervisor
// kills workers that have not exited.
const stopGrace = 5 * time.Second

func runSupervisor(ctx context.Context, cfg *config.Config) error {
	log, err := setupProcessLogger(cfg, roleSupervisor)
	if err != nil {
		return err
	}

	if !netutil.ReusePortSupported {
		log.Warn("SO_REUSEPORT unsupported, falling back to a single server process")
		return runServer(ctx, cfg, roleServer)
	}

	spawner, err := supervisor.NewSelfSpawner()
	if err != nil {
		return err
	}

	m := metrics.New()
	sup, err := supervisor.New(spawner, supervisor.Options{
		Workers:     cfg.Server.Workers,
		StopTimeout: time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second + stopGrace,
		Recorder:    m,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	log.Info("supervisor starting",
		slog.Int("workers", sup.Count()),
		slog.Int("port", cfg.Server.Port))

	if cfg.Server.MetricsAddr != "" {
		go serveSupervisorMetrics(ctx, cfg.Server.MetricsAddr, m, log)
	}

	return sup.Run(ctx)
}

func serveSupervisorMetrics(ctx context.Context, addr string, m *metrics.Metrics, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("supervisor metrics listening", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("supervisor metrics server failed", slog.String("error", err.Error()))
	}
}
