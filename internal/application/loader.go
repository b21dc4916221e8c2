package application

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load on the same resource started before it completed.
var ErrSuperseded = errors.New("load superseded by a newer request")

// loadTracker implements the cancel-and-replace policy shared by Collection
// and Resource. Each load takes the next sequence number and cancels the
// previous in-flight load; only the latest sequence may commit its result.
type loadTracker struct {
	seq    uint64
	cancel context.CancelFunc
}

// begin starts a new load. The caller must hold the owner's lock.
func (t *loadTracker) begin(ctx context.Context) (uint64, context.Context) {
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	loadCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	return t.seq, loadCtx
}

// finish reports whether seq is still the latest load and, if so, releases
// its context. The caller must hold the owner's lock.
func (t *loadTracker) finish(seq uint64) bool {
	if seq != t.seq {
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// observers holds snapshot callbacks and delivers them through a Dispatcher.
type observers[S any] struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	fns        []func(S)
}

func (o *observers[S]) add(fn func(S)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fns = append(o.fns, fn)
}

func (o *observers[S]) publish(snap S) {
	o.mu.Lock()
	fns := make([]func(S), len(o.fns))
	copy(fns, o.fns)
	o.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	o.dispatcher.Dispatch(func() {
		for _, fn := range fns {
			fn(snap)
		}
	})
}
