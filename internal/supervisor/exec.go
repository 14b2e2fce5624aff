package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// WorkerIDEnv carries the worker id into each spawned process. Its
// presence is how a process knows it is a worker.
const WorkerIDEnv = "INTERNBOOK_WORKER_ID"

// WorkerID returns the worker id of the current process and whether it
// runs as a supervised worker.
func WorkerID() (uint64, bool) {
	raw, ok := os.LookupEnv(WorkerIDEnv)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ExecSpawner starts workers by executing Path with Args. Each child
// inherits the parent environment plus Env and WorkerIDEnv.
type ExecSpawner struct {
	Path string
	Args []string
	Env  []string

	// Stdout and Stderr default to the parent's.
	Stdout io.Writer
	Stderr io.Writer
}

// NewSelfSpawner returns an ExecSpawner that re-executes the running
// binary with the same arguments.
func NewSelfSpawner() (*ExecSpawner, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable: %w", err)
	}
	return &ExecSpawner{Path: path, Args: os.Args[1:]}, nil
}

// Spawn implements Spawner. The child is not bound to ctx; the supervisor
// ends workers explicitly so they can shut down gracefully.
func (s *ExecSpawner) Spawn(_ context.Context, workerID uint64) (Worker, error) {
	cmd := exec.Command(s.Path, s.Args...)
	cmd.Env = append(os.Environ(), s.Env...)
	cmd.Env = append(cmd.Env, WorkerIDEnv+"="+strconv.FormatUint(workerID, 10))
	cmd.SysProcAttr = workerProcAttr()
	cmd.Stdout = s.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker %d: %w", workerID, err)
	}
	return &execWorker{cmd: cmd}, nil
}

type execWorker struct {
	cmd *exec.Cmd
}

func (w *execWorker) Pid() int {
	return w.cmd.Process.Pid
}

func (w *execWorker) Signal(sig os.Signal) error {
	return w.cmd.Process.Signal(sig)
}

func (w *execWorker) Kill() error {
	return w.cmd.Process.Kill()
}

func (w *execWorker) Wait() ExitStatus {
	err := w.cmd.Wait()
	status := exitStatus(w.cmd.ProcessState)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		status.Err = err
	}
	return status
}
