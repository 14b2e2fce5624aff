// Package supervisor keeps a fixed number of worker processes running.
//
// A Supervisor spawns one worker per CPU (or a configured count) and
// replaces every worker that exits with exactly one new worker, right
// away. It does not inspect exit codes, back off, or limit restarts. A
// single monitor goroutine owns the pid table; reap goroutines only report
// exits to it over a channel.
//
// Cancelling the context passed to Start stops the supervisor: the stop
// signal is forwarded to every worker, and workers still running after
// StopTimeout are killed.
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync/atomic"
	"syscall"
	"time"
)

const (
	defaultSpawnRetryDelay = time.Second
	defaultStopTimeout     = 10 * time.Second
)

var (
	// ErrAlreadyStarted is returned by Start on a second call.
	ErrAlreadyStarted = errors.New("supervisor already started")

	// ErrStopped is returned by Snapshot once the supervisor has stopped.
	ErrStopped = errors.New("supervisor stopped")
)

// Recorder receives worker lifecycle events. *metrics.Metrics satisfies it.
type Recorder interface {
	WorkerStarted()
	WorkerExited(kind string)
	WorkerSpawnFailed()
}

type noopRecorder struct{}

func (noopRecorder) WorkerStarted()      {}
func (noopRecorder) WorkerExited(string) {}
func (noopRecorder) WorkerSpawnFailed()  {}

// Options configures a Supervisor.
type Options struct {
	// Workers is the number of workers to keep alive. Zero means one per CPU.
	Workers int

	// SpawnRetryDelay is how long to wait before retrying a failed spawn.
	SpawnRetryDelay time.Duration

	// StopTimeout bounds how long Stop waits for workers before killing them.
	StopTimeout time.Duration

	// StopSignal is forwarded to workers on stop. Defaults to SIGTERM.
	StopSignal os.Signal

	Recorder Recorder
	Logger   *slog.Logger
}

// WorkerInfo describes a live worker.
type WorkerInfo struct {
	ID        uint64
	Pid       int
	StartedAt time.Time
}

type handle struct {
	id        uint64
	worker    Worker
	startedAt time.Time
}

type exitEvent struct {
	pid    int
	id     uint64
	status ExitStatus
}

// Supervisor keeps Count workers alive.
type Supervisor struct {
	spawner     Spawner
	count       int
	retryDelay  time.Duration
	stopTimeout time.Duration
	stopSignal  os.Signal
	recorder    Recorder
	logger      *slog.Logger

	exits     chan exitEvent
	retries   chan struct{}
	snapshots chan chan []WorkerInfo
	done      chan struct{}
	started   atomic.Bool

	// Owned by the monitor goroutine once Start returns.
	workers map[int]*handle
	seq     uint64
}

// New creates a Supervisor that starts workers with spawner.
func New(spawner Spawner, opts Options) (*Supervisor, error) {
	return newSupervisor(spawner, opts, runtime.NumCPU)
}

func newSupervisor(spawner Spawner, opts Options, numCPU func() int) (*Supervisor, error) {
	if spawner == nil {
		return nil, errors.New("spawner cannot be nil")
	}
	if opts.Workers < 0 {
		return nil, errors.New("worker count cannot be negative")
	}

	count := opts.Workers
	if count == 0 {
		count = numCPU()
	}
	if count < 1 {
		count = 1
	}
	if opts.SpawnRetryDelay <= 0 {
		opts.SpawnRetryDelay = defaultSpawnRetryDelay
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = defaultStopTimeout
	}
	if opts.StopSignal == nil {
		opts.StopSignal = syscall.SIGTERM
	}
	if opts.Recorder == nil {
		opts.Recorder = noopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Supervisor{
		spawner:     spawner,
		count:       count,
		retryDelay:  opts.SpawnRetryDelay,
		stopTimeout: opts.StopTimeout,
		stopSignal:  opts.StopSignal,
		recorder:    opts.Recorder,
		logger:      opts.Logger.With(slog.String("component", "supervisor")),
		exits:       make(chan exitEvent),
		retries:     make(chan struct{}),
		snapshots:   make(chan chan []WorkerInfo),
		done:        make(chan struct{}),
		workers:     make(map[int]*handle),
	}, nil
}

// Count returns the number of workers the supervisor keeps alive.
func (s *Supervisor) Count() int {
	return s.count
}

// Start spawns the initial workers and starts the monitor goroutine. It
// returns once every initial spawn has been attempted; failed spawns are
// retried by the monitor.
func (s *Supervisor) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.logger.Info("starting workers", slog.Int("count", s.count))
	for i := 0; i < s.count; i++ {
		s.spawn(ctx)
	}

	go s.monitor(ctx)
	return nil
}

// Run starts the supervisor and blocks until ctx is cancelled and every
// worker has exited.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-s.done
	return nil
}

// Done is closed once the supervisor has stopped and reaped its workers.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the live workers ordered by id.
func (s *Supervisor) Snapshot(ctx context.Context) ([]WorkerInfo, error) {
	reply := make(chan []WorkerInfo, 1)
	select {
	case s.snapshots <- reply:
	case <-s.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case infos := <-reply:
		return infos, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Supervisor) monitor(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case ev := <-s.exits:
			s.onWorkerExit(ctx, ev)
		case <-s.retries:
			if ctx.Err() == nil {
				s.spawn(ctx)
			}
		case reply := <-s.snapshots:
			reply <- s.snapshot()
		case <-ctx.Done():
			s.stop()
			return
		}
	}
}

// onWorkerExit forgets the exited worker and spawns its replacement.
func (s *Supervisor) onWorkerExit(ctx context.Context, ev exitEvent) {
	h := s.forget(ev)

	attrs := []any{
		slog.Uint64("worker_id", ev.id),
		slog.Int("pid", ev.pid),
		slog.Int("exit_code", ev.status.Code),
		slog.String("signal", ev.status.Signal),
	}
	if h != nil {
		attrs = append(attrs, slog.Duration("uptime", time.Since(h.startedAt)))
	}
	if ev.status.Err != nil {
		attrs = append(attrs, slog.String("error", ev.status.Err.Error()))
	}
	s.logger.Warn("worker died", attrs...)

	if ctx.Err() != nil {
		return
	}
	s.spawn(ctx)
}

// forget removes the exited worker from the pid table and records the
// exit. A pid already taken over by a newer worker is left in place.
func (s *Supervisor) forget(ev exitEvent) *handle {
	s.recorder.WorkerExited(ev.status.Kind())

	h, ok := s.workers[ev.pid]
	if !ok || h.id != ev.id {
		return nil
	}
	delete(s.workers, ev.pid)
	return h
}

func (s *Supervisor) spawn(ctx context.Context) {
	s.seq++
	id := s.seq

	w, err := s.spawner.Spawn(ctx, id)
	if err != nil {
		s.recorder.WorkerSpawnFailed()
		s.logger.Error("failed to spawn worker",
			slog.Uint64("worker_id", id),
			slog.String("error", err.Error()),
			slog.Duration("retry_in", s.retryDelay))
		s.scheduleRetry(ctx)
		return
	}

	h := &handle{id: id, worker: w, startedAt: time.Now()}
	pid := w.Pid()
	s.workers[pid] = h
	s.recorder.WorkerStarted()
	s.logger.Info("worker started", slog.Uint64("worker_id", id), slog.Int("pid", pid))

	go s.reap(pid, h)
}

func (s *Supervisor) reap(pid int, h *handle) {
	status := h.worker.Wait()
	s.exits <- exitEvent{pid: pid, id: h.id, status: status}
}

func (s *Supervisor) scheduleRetry(ctx context.Context) {
	time.AfterFunc(s.retryDelay, func() {
		select {
		case s.retries <- struct{}{}:
		case <-ctx.Done():
		}
	})
}

// stop forwards the stop signal and waits for every worker to exit,
// killing stragglers after stopTimeout.
func (s *Supervisor) stop() {
	s.logger.Info("stopping workers",
		slog.Int("count", len(s.workers)),
		slog.String("signal", s.stopSignal.String()))

	for pid, h := range s.workers {
		if err := h.worker.Signal(s.stopSignal); err != nil {
			s.logger.Debug("failed to signal worker",
				slog.Int("pid", pid),
				slog.String("error", err.Error()))
		}
	}

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()
	deadline := timer.C

	for len(s.workers) > 0 {
		select {
		case ev := <-s.exits:
			s.forget(ev)
			s.logger.Info("worker stopped",
				slog.Uint64("worker_id", ev.id),
				slog.Int("pid", ev.pid),
				slog.String("status", ev.status.String()))
		case reply := <-s.snapshots:
			reply <- s.snapshot()
		case <-deadline:
			deadline = nil
			s.logger.Warn("workers did not stop in time, killing",
				slog.Int("count", len(s.workers)),
				slog.Duration("timeout", s.stopTimeout))
			for _, h := range s.workers {
				_ = h.worker.Kill()
			}
		}
	}

	s.logger.Info("all workers stopped")
}

func (s *Supervisor) snapshot() []WorkerInfo {
	infos := make([]WorkerInfo, 0, len(s.workers))
	for pid, h := range s.workers {
		infos = append(infos, WorkerInfo{ID: h.id, Pid: pid, StartedAt: h.startedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
