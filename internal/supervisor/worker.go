package supervisor

import (
	"context"
	"fmt"
	"os"
)

// ExitStatus describes how a worker process ended.
type ExitStatus struct {
	// Code is the process exit code, or -1 when it was killed by a signal.
	Code int

	// Signal names the terminating signal, or is empty for a normal exit.
	Signal string

	// Err is set when waiting on the process failed for a reason other
	// than a non-zero exit.
	Err error
}

// Kind returns "signal" or "exit" for metric labels.
func (s ExitStatus) Kind() string {
	if s.Signal != "" {
		return "signal"
	}
	return "exit"
}

func (s ExitStatus) String() string {
	if s.Signal != "" {
		return "signal " + s.Signal
	}
	return fmt.Sprintf("exit code %d", s.Code)
}

// Worker is a running worker process.
type Worker interface {
	// Pid returns the OS process id.
	Pid() int

	// Signal delivers sig to the process.
	Signal(sig os.Signal) error

	// Kill terminates the process immediately.
	Kill() error

	// Wait blocks until the process exits and reaps it. It is called once,
	// from a goroutine owned by the supervisor.
	Wait() ExitStatus
}

// Spawner starts worker processes.
type Spawner interface {
	// Spawn starts a worker identified by workerID. The id is unique
	// across every worker the supervisor ever starts.
	Spawn(ctx context.Context, workerID uint64) (Worker, error)
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(ctx context.Context, workerID uint64) (Worker, error)

// Spawn implements Spawner.
func (f SpawnerFunc) Spawn(ctx context.Context, workerID uint64) (Worker, error) {
	return f(ctx, workerID)
}
