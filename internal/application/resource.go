package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// ResourceSnapshot is an immutable view of a Resource.
type ResourceSnapshot[T any] struct {
	Value *T
	State model.LoadState
	Err   error
}

// Resource holds a single remotely loaded value with the same state machine
// and cancel-and-replace policy as Collection.
type Resource[T any] struct {
	mu       sync.Mutex
	value    *T
	state    model.LoadState
	err      error
	tracker  loadTracker
	watchers observers[ResourceSnapshot[T]]
}

// NewResource creates an empty resource in NotLoaded state.
func NewResource[T any](dispatcher Dispatcher) *Resource[T] {
	return &Resource[T]{watchers: observers[ResourceSnapshot[T]]{dispatcher: dispatcher}}
}

// Observe registers fn to receive a snapshot after every change.
func (r *Resource[T]) Observe(fn func(ResourceSnapshot[T])) {
	r.watchers.add(fn)
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() ResourceSnapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Load fetches the value. On failure the previous value is kept. A load
// superseded by a newer one returns ErrSuperseded.
func (r *Resource[T]) Load(ctx context.Context, name string, force bool, fetch func(ctx context.Context) (*T, error)) error {
	r.mu.Lock()
	seq, loadCtx := r.tracker.begin(ctx)
	r.transitionLocked(model.LoadStateLoading)
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.watchers.publish(snap)

	value, err := fetch(driven.WithForceRefresh(loadCtx, force))

	r.mu.Lock()
	if !r.tracker.finish(seq) {
		r.mu.Unlock()
		slog.Debug("discarding superseded load", "request", name, "seq", seq)
		return ErrSuperseded
	}
	if err != nil {
		r.transitionLocked(model.LoadStateLoadedWithError)
		r.err = err
	} else {
		r.transitionLocked(model.LoadStateLoaded)
		r.value = value
		r.err = nil
	}
	snap = r.snapshotLocked()
	r.mu.Unlock()
	r.watchers.publish(snap)

	if err != nil {
		slog.Warn("resource load failed", "request", name, "error", err)
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return nil
}

// Set replaces the value without a fetch, as after a write that returns the
// updated resource. The load state is left unchanged.
func (r *Resource[T]) Set(value *T) {
	r.mu.Lock()
	r.value = value
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.watchers.publish(snap)
}

func (r *Resource[T]) transitionLocked(to model.LoadState) {
	next, err := r.state.Next(to)
	if err != nil {
		slog.Error("resource state", "error", err)
	}
	r.state = next
}

func (r *Resource[T]) snapshotLocked() ResourceSnapshot[T] {
	return ResourceSnapshot[T]{Value: r.value, State: r.state, Err: r.err}
}
