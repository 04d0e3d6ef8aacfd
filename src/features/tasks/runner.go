package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Runner executes blocking operations off the caller's goroutine, at most
// Workers at a time, and settles a Pending with their result.
type Runner struct {
	sem     *semaphore.Weighted
	workers int
	logger  *slog.Logger
}

// NewRunner creates a runner with the given concurrency.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: workers,
		logger:  slog.Default(),
	}
}

// Workers returns the configured concurrency.
func (r *Runner) Workers() int {
	return r.workers
}

// Go runs fn on a worker. The returned Pending settles exactly once: with fn's
// result, with fn's error, with a recovered panic, or with ctx's error if the
// task never got a worker.
func Go[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context) (T, error)) *Pending[T] {
	p := newPending[T](uuid.New().String())

	go func() {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			p.reject(fmt.Errorf("task %s not started: %w", name, err))
			return
		}
		defer r.sem.Release(1)

		start := time.Now()
		r.logger.Debug("Starting task", "task", name, "id", p.ID)

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Task panicked", "task", name, "id", p.ID, "panic", rec, "stack", string(debug.Stack()))
				p.reject(fmt.Errorf("task %s panicked: %v", name, rec))
			}
		}()

		v, err := fn(ctx)
		if err != nil {
			r.logger.Debug("Task failed", "task", name, "id", p.ID, "duration", time.Since(start).String(), "error", err)
			p.reject(err)
			return
		}
		r.logger.Debug("Task finished", "task", name, "id", p.ID, "duration", time.Since(start).String())
		p.resolve(v)
	}()

	return p
}
