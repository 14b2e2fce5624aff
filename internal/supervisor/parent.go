package supervisor

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrParentExited is the cause of a WithParent context cancelled because
// the supervisor went away.
var ErrParentExited = errors.New("supervisor process exited")

// WithParent returns a context that is cancelled with ErrParentExited once
// the process that started this one exits. The parent pid is polled every
// interval; an orphaned process is reparented, which changes it.
func WithParent(ctx context.Context, interval time.Duration) (context.Context, context.CancelFunc) {
	return withParent(ctx, interval, os.Getppid)
}

func withParent(ctx context.Context, interval time.Duration, getppid func() int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	parent := getppid()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if getppid() != parent {
					cancel(ErrParentExited)
					return
				}
			}
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}
