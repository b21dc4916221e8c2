package application

import (
	"context"
	"log/slog"
)

// Dispatcher runs display updates. Every observer callback and every display
// call made by a view goes through its Dispatcher, so a display is only ever
// touched from the goroutine the Dispatcher chooses.
type Dispatcher interface {
	Dispatch(fn func())
}

// InlineDispatcher runs each update on the calling goroutine. It suits
// request-scoped renders where the display is owned by a single handler call.
type InlineDispatcher struct{}

// Dispatch runs fn immediately.
func (InlineDispatcher) Dispatch(fn func()) { fn() }

// UIQueue serializes updates onto the single goroutine running Run.
type UIQueue struct {
	queue chan func()
	done  chan struct{}
}

// NewUIQueue creates a queue buffering up to size pending updates.
func NewUIQueue(size int) *UIQueue {
	if size < 1 {
		size = 1
	}
	return &UIQueue{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch enqueues fn. It blocks while the buffer is full and drops fn once
// Run has returned.
func (q *UIQueue) Dispatch(fn func()) {
	select {
	case q.queue <- fn:
	case <-q.done:
	}
}

// Run executes queued updates in order until ctx is canceled. Run blocks and
// must be called from exactly one goroutine.
func (q *UIQueue) Run(ctx context.Context) {
	defer close(q.done)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("ui queue stopped", "pending", len(q.queue))
			return
		case fn := <-q.queue:
			fn()
		}
	}
}
