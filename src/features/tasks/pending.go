package tasks

import (
	"context"
	"sync"
)

// Pending is a single-resolution result handle. It settles exactly once with
// either a value or an error; later settlements are ignored.
type Pending[T any] struct {
	ID string

	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newPending[T any](id string) *Pending[T] {
	return &Pending[T]{ID: id, done: make(chan struct{})}
}

// Resolved returns a Pending already settled with v.
func Resolved[T any](v T) *Pending[T] {
	p := newPending[T]("")
	p.resolve(v)
	return p
}

// Rejected returns a Pending already settled with err.
func Rejected[T any](err error) *Pending[T] {
	p := newPending[T]("")
	p.reject(err)
	return p
}

func (p *Pending[T]) resolve(v T) bool {
	settled := false
	p.once.Do(func() {
		p.value = v
		close(p.done)
		settled = true
	})
	return settled
}

func (p *Pending[T]) reject(err error) bool {
	settled := false
	p.once.Do(func() {
		p.err = err
		close(p.done)
		settled = true
	})
	return settled
}

// Done is closed once the result is settled.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is settled or ctx ends.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
