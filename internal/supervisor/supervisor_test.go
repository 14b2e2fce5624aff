package supervisor

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeWorker struct {
	pid        int
	id         uint64
	exit       chan ExitStatus
	once       sync.Once
	ignoreTerm bool

	mu      sync.Mutex
	signals []os.Signal
	killed  bool
}

func (w *fakeWorker) Pid() int { return w.pid }

func (w *fakeWorker) Signal(sig os.Signal) error {
	w.mu.Lock()
	w.signals = append(w.signals, sig)
	w.mu.Unlock()
	if !w.ignoreTerm {
		w.terminate(ExitStatus{Code: 0})
	}
	return nil
}

func (w *fakeWorker) Kill() error {
	w.mu.Lock()
	w.killed = true
	w.mu.Unlock()
	w.terminate(ExitStatus{Code: -1, Signal: "killed"})
	return nil
}

func (w *fakeWorker) Wait() ExitStatus { return <-w.exit }

func (w *fakeWorker) terminate(status ExitStatus) {
	w.once.Do(func() { w.exit <- status })
}

func (w *fakeWorker) receivedSignals() []os.Signal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]os.Signal(nil), w.signals...)
}

func (w *fakeWorker) wasKilled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.killed
}

type fakeSpawner struct {
	mu         sync.Mutex
	nextPid    int
	workers    []*fakeWorker
	failFirst  int
	attempts   int
	ignoreTerm bool
}

func (s *fakeSpawner) Spawn(_ context.Context, workerID uint64) (Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	if s.attempts <= s.failFirst {
		return nil, errors.New("fork: resource temporarily unavailable")
	}
	s.nextPid++
	w := &fakeWorker{
		pid:        1000 + s.nextPid,
		id:         workerID,
		exit:       make(chan ExitStatus, 1),
		ignoreTerm: s.ignoreTerm,
	}
	s.workers = append(s.workers, w)
	return w, nil
}

func (s *fakeSpawner) spawned() []*fakeWorker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeWorker(nil), s.workers...)
}

type countingRecorder struct {
	started, exited, failed atomic.Int64
}

func (r *countingRecorder) WorkerStarted()      { r.started.Add(1) }
func (r *countingRecorder) WorkerExited(string) { r.exited.Add(1) }
func (r *countingRecorder) WorkerSpawnFailed()  { r.failed.Add(1) }

func startSupervisor(t *testing.T, spawner Spawner, opts Options, cpus int) (*Supervisor, context.CancelFunc) {
	t.Helper()
	sup, err := newSupervisor(spawner, opts, func() int { return cpus })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sup.Start(ctx))
	t.Cleanup(func() {
		cancel()
		select {
		case <-sup.Done():
		case <-time.After(waitFor):
			t.Error("supervisor did not stop")
		}
	})
	return sup, cancel
}

func liveWorkers(t *testing.T, sup *Supervisor) []WorkerInfo {
	t.Helper()
	infos, err := sup.Snapshot(context.Background())
	require.NoError(t, err)
	return infos
}

// liveCount is safe to call from require.Eventually conditions.
func liveCount(sup *Supervisor) int {
	infos, err := sup.Snapshot(context.Background())
	if err != nil {
		return -1
	}
	return len(infos)
}

func TestStartSpawnsOneWorkerPerCPU(t *testing.T) {
	spawner := &fakeSpawner{}
	sup, _ := startSupervisor(t, spawner, Options{}, 4)

	assert.Equal(t, 4, sup.Count())
	infos := liveWorkers(t, sup)
	require.Len(t, infos, 4)
	for i, info := range infos {
		assert.Equal(t, uint64(i+1), info.ID)
	}
}

func TestWorkersOptionOverridesCPUCount(t *testing.T) {
	sup, _ := startSupervisor(t, &fakeSpawner{}, Options{Workers: 2}, 16)
	assert.Equal(t, 2, sup.Count())
	assert.Len(t, liveWorkers(t, sup), 2)
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	_, err = New(&fakeSpawner{}, Options{Workers: -1})
	assert.Error(t, err)

	sup, err := newSupervisor(&fakeSpawner{}, Options{}, func() int { return 0 })
	require.NoError(t, err)
	assert.Equal(t, 1, sup.Count())
}

func TestStartTwice(t *testing.T) {
	sup, _ := startSupervisor(t, &fakeSpawner{}, Options{Workers: 1}, 1)
	assert.ErrorIs(t, sup.Start(context.Background()), ErrAlreadyStarted)
}

func TestOneExitSpawnsExactlyOneReplacement(t *testing.T) {
	spawner := &fakeSpawner{}
	recorder := &countingRecorder{}
	sup, _ := startSupervisor(t, spawner, Options{Recorder: recorder}, 4)

	victim := spawner.spawned()[2]
	victim.terminate(ExitStatus{Code: 1})

	require.Eventually(t, func() bool { return len(spawner.spawned()) == 5 }, waitFor, tick)
	// Give a wrongly doubled respawn the chance to show up.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, spawner.spawned(), 5)

	infos := liveWorkers(t, sup)
	require.Len(t, infos, 4)
	for _, info := range infos {
		assert.NotEqual(t, victim.pid, info.Pid)
		assert.NotEqual(t, victim.id, info.ID)
	}
	assert.Equal(t, uint64(5), infos[3].ID)
	assert.Equal(t, int64(5), recorder.started.Load())
	assert.Equal(t, int64(1), recorder.exited.Load())
}

func TestExitSequenceRestoresCount(t *testing.T) {
	spawner := &fakeSpawner{}
	sup, _ := startSupervisor(t, spawner, Options{}, 3)

	statuses := []ExitStatus{
		{Code: 0},
		{Code: 2},
		{Code: -1, Signal: "killed"},
		{Code: -1, Signal: "segmentation fault"},
		{Code: 137},
	}
	for i, status := range statuses {
		live := liveWorkers(t, sup)
		require.Len(t, live, 3)

		var target *fakeWorker
		for _, w := range spawner.spawned() {
			if w.id == live[i%len(live)].ID {
				target = w
			}
		}
		require.NotNil(t, target)
		target.terminate(status)

		want := 3 + i + 1
		require.Eventually(t, func() bool { return len(spawner.spawned()) == want }, waitFor, tick)
		require.Eventually(t, func() bool { return liveCount(sup) == 3 }, waitFor, tick)
	}

	seen := map[uint64]bool{}
	for _, w := range spawner.spawned() {
		assert.False(t, seen[w.id], "worker id %d reused", w.id)
		seen[w.id] = true
	}
	assert.Len(t, seen, 3+len(statuses))
}

func TestSimultaneousExits(t *testing.T) {
	spawner := &fakeSpawner{}
	sup, _ := startSupervisor(t, spawner, Options{}, 4)

	for _, w := range spawner.spawned() {
		w.terminate(ExitStatus{Code: 1})
	}

	require.Eventually(t, func() bool { return len(spawner.spawned()) == 8 }, waitFor, tick)
	infos := liveWorkers(t, sup)
	require.Len(t, infos, 4)
	for _, info := range infos {
		assert.Greater(t, info.ID, uint64(4))
	}
}

func TestSpawnFailureIsRetried(t *testing.T) {
	spawner := &fakeSpawner{failFirst: 2}
	recorder := &countingRecorder{}
	sup, _ := startSupervisor(t, spawner, Options{SpawnRetryDelay: 10 * time.Millisecond, Recorder: recorder}, 3)

	require.Eventually(t, func() bool { return liveCount(sup) == 3 }, waitFor, tick)
	assert.Equal(t, int64(2), recorder.failed.Load())
	assert.Equal(t, int64(3), recorder.started.Load())
}

func TestStopForwardsSignal(t *testing.T) {
	spawner := &fakeSpawner{}
	sup, cancel := startSupervisor(t, spawner, Options{}, 3)

	cancel()
	select {
	case <-sup.Done():
	case <-time.After(waitFor):
		t.Fatal("supervisor did not stop")
	}

	assert.Len(t, spawner.spawned(), 3, "no replacements during stop")
	for _, w := range spawner.spawned() {
		assert.Equal(t, []os.Signal{syscall.SIGTERM}, w.receivedSignals())
		assert.False(t, w.wasKilled())
	}

	_, err := sup.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStopKillsStragglers(t *testing.T) {
	spawner := &fakeSpawner{ignoreTerm: true}
	sup, cancel := startSupervisor(t, spawner, Options{StopTimeout: 20 * time.Millisecond}, 2)

	cancel()
	select {
	case <-sup.Done():
	case <-time.After(waitFor):
		t.Fatal("supervisor did not stop")
	}

	for _, w := range spawner.spawned() {
		assert.True(t, w.wasKilled())
	}
}

func TestRunBlocksUntilStopped(t *testing.T) {
	sup, err := newSupervisor(&fakeSpawner{}, Options{}, func() int { return 2 })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- sup.Run(ctx) }()

	require.Eventually(t, func() bool {
		infos, err := sup.Snapshot(context.Background())
		return err == nil && len(infos) == 2
	}, waitFor, tick)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Run did not return")
	}
}

func TestSpawnerFunc(t *testing.T) {
	var got uint64
	s := SpawnerFunc(func(_ context.Context, id uint64) (Worker, error) {
		got = id
		return nil, errors.New("nope")
	})
	_, err := s.Spawn(context.Background(), 7)
	assert.Error(t, err)
	assert.Equal(t, uint64(7), got)
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, "exit", ExitStatus{Code: 1}.Kind())
	assert.Equal(t, "signal", ExitStatus{Code: -1, Signal: "killed"}.Kind())
	assert.Equal(t, "exit code 3", ExitStatus{Code: 3}.String())
	assert.Equal(t, "signal terminated", ExitStatus{Signal: "terminated"}.String())
}

func TestWorkerExitIsLogged(t *testing.T) {
	logBuf, log := logger.SetupTestLogger(t)
	spawner := &fakeSpawner{}
	startSupervisor(t, spawner, Options{Logger: log}, 2)

	victim := spawner.spawned()[0]
	victim.terminate(ExitStatus{Code: -1, Signal: "killed"})

	require.Eventually(t, func() bool { return len(spawner.spawned()) == 3 }, waitFor, tick)

	require.Eventually(t, func() bool {
		entries, err := logBuf.GetLogEntries()
		if err != nil {
			return false
		}
		for _, e := range entries {
			if e["msg"] == "worker died" &&
				e["pid"] == float64(victim.pid) &&
				e["signal"] == "killed" {
				return true
			}
		}
		return false
	}, waitFor, tick)
}
