// Package main is the entry point for the internbook API server.
//
// Outside production the process acts as a supervisor that keeps one
// worker process per CPU running; each worker re-executes this binary and
// serves the API on a shared port. In production a single process serves
// the API directly.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/internbook/internbook-api/internal/config"
	"github.com/internbook/internbook-api/internal/supervisor"
	"github.com/spf13/pflag"
)

// options holds the command-line flags.
type options struct {
	configPath string
	migrate    string
}

var errHelp = errors.New("help requested")

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("internbook-api", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, status) and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	switch opts.migrate {
	case "", "up", "status":
	default:
		return opts, fmt.Errorf("unknown migrate command %q (want up or status)", opts.migrate)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, errHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "internbook-api: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// parentPollInterval is how often a worker checks that its supervisor is
// still alive. Linux workers are also signalled by the kernel.
const parentPollInterval = time.Second

// role is the part this process plays, decided once at startup.
type role int

const (
	roleServer role = iota
	roleSupervisor
	roleWorker
)

func (r role) String() string {
	switch r {
	case roleSupervisor:
		return "supervisor"
	case roleWorker:
		return "worker"
	default:
		return "server"
	}
}

// decideRole picks the process role. Workers are recognised by the worker
// id in their environment; otherwise production runs a single server and
// every other environment runs the supervisor.
func decideRole(cfg config.ServerConfig, isWorker bool) role {
	switch {
	case isWorker:
		return roleWorker
	case cfg.IsProduction():
		return roleServer
	default:
		return roleSupervisor
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.migrate != "" {
		return runMigrations(ctx, cfg, opts.migrate)
	}

	workerID, isWorker := supervisor.WorkerID()
	switch decideRole(cfg.Server, isWorker) {
	case roleSupervisor:
		return runSupervisor(ctx, cfg)
	case roleWorker:
		ctx, cancel := supervisor.WithParent(ctx, parentPollInterval)
		defer cancel()
		return runServer(ctx, cfg, roleWorker, slog.Uint64("worker_id", workerID))
	default:
		return runServer(ctx, cfg, roleServer)
	}
}
