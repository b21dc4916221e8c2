package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// PageRequest describes how to fetch one page of a remote list. Name
// identifies the request in logs.
type PageRequest[T any] struct {
	Name  string
	Fetch func(ctx context.Context, opts driven.ListOptions) (driven.Page[T], error)
}

// CollectionSnapshot is an immutable view of a Collection at one point in time.
type CollectionSnapshot[T any] struct {
	Items   []T
	State   model.LoadState
	Err     error // Set only in LoadedWithError.
	Epoch   int   // Incremented on every successful wholesale replacement.
	HasMore bool
}

// Collection is an observable list of remote resources with an explicit load
// state. Items are replaced wholesale on a successful Load and kept as they
// were on a failed one. Concurrent loads follow cancel-and-replace: a newer
// load cancels the older one, whose late result is discarded.
type Collection[T any] struct {
	mu       sync.Mutex
	items    []T
	state    model.LoadState
	err      error
	epoch    int
	nextPage int
	req      *PageRequest[T]
	perPage  int
	appended uint64 // Counts Append calls.
	tracker  loadTracker
	watchers observers[CollectionSnapshot[T]]
}

// NewCollection creates an empty collection in NotLoaded state. Observer
// callbacks are delivered through dispatcher. perPage of 0 uses the client's
// default page size.
func NewCollection[T any](dispatcher Dispatcher, perPage int) *Collection[T] {
	return &Collection[T]{
		items:    []T{},
		perPage:  perPage,
		watchers: observers[CollectionSnapshot[T]]{dispatcher: dispatcher},
	}
}

// Observe registers fn to receive a snapshot after every change.
func (c *Collection[T]) Observe(fn func(CollectionSnapshot[T])) {
	c.watchers.add(fn)
}

// Snapshot returns the current state.
func (c *Collection[T]) Snapshot() CollectionSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load fetches the first page of req and replaces the contents with it.
// force bypasses response caches between the client and the API. On failure
// the previous items are kept and the collection moves to LoadedWithError;
// the fetch error is returned. A load superseded by a newer one returns
// ErrSuperseded and changes nothing. Items appended while the fetch ran are
// missing from its page, so the page is fetched again, forced.
func (c *Collection[T]) Load(ctx context.Context, req PageRequest[T], force bool) error {
	for {
		mark, settled, err := c.loadFirst(ctx, req, force)
		if err != nil || settled == mark {
			return err
		}
		force = true
	}
}

func (c *Collection[T]) loadFirst(ctx context.Context, req PageRequest[T], force bool) (uint64, uint64, error) {
	c.mu.Lock()
	c.req = &req
	mark := c.appended
	seq, loadCtx := c.tracker.begin(ctx)
	c.state = c.transitionLocked(model.LoadStateLoading)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.watchers.publish(snap)

	page, err := req.Fetch(driven.WithForceRefresh(loadCtx, force), driven.ListOptions{Page: 1, PerPage: c.perPage})

	settled, err := c.complete(seq, req.Name, page, err, false)
	return mark, settled, err
}

// LoadMore fetches the page after the last one loaded and appends it. It is
// a no-op when there is no further page or a load is already in flight.
func (c *Collection[T]) LoadMore(ctx context.Context) error {
	_, _, err := c.loadMore(ctx, false)
	return err
}

func (c *Collection[T]) loadMore(ctx context.Context, force bool) (bool, uint64, error) {
	c.mu.Lock()
	if c.req == nil || c.nextPage == 0 || c.state.IsLoading() {
		settled := c.appended
		c.mu.Unlock()
		return false, settled, nil
	}
	req := *c.req
	pageNum := c.nextPage
	seq, loadCtx := c.tracker.begin(ctx)
	c.state = c.transitionLocked(model.LoadStateLoading)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.watchers.publish(snap)

	page, err := req.Fetch(driven.WithForceRefresh(loadCtx, force), driven.ListOptions{Page: pageNum, PerPage: c.perPage})

	settled, err := c.complete(seq, req.Name, page, err, true)
	return true, settled, err
}

// LoadAll loads the first page of req and then every following page. It
// stops at the first failed or superseded page, and starts over, forced,
// when items were appended while it ran.
func (c *Collection[T]) LoadAll(ctx context.Context, req PageRequest[T], force bool) error {
	for {
		mark, settled, err := c.loadFirst(ctx, req, force)
		if err != nil {
			return err
		}
		for {
			var started bool
			started, settled, err = c.loadMore(ctx, force)
			if err != nil {
				return err
			}
			if !started {
				break
			}
		}
		if settled == mark {
			return nil
		}
		force = true
	}
}

// Append adds locally created items, such as a freshly posted comment, to
// the end of the list without a fetch.
func (c *Collection[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	c.items = append(slices.Clip(c.items), items...)
	c.appended++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.watchers.publish(snap)
}

// complete commits the outcome of load seq. It also returns the append
// counter as of the commit, for callers checking whether local items were
// added while they fetched.
func (c *Collection[T]) complete(seq uint64, name string, page driven.Page[T], err error, appendPage bool) (uint64, error) {
	c.mu.Lock()
	settled := c.appended
	if !c.tracker.finish(seq) {
		c.mu.Unlock()
		slog.Debug("discarding superseded load", "request", name, "seq", seq)
		return settled, ErrSuperseded
	}

	if err != nil {
		c.state = c.transitionLocked(model.LoadStateLoadedWithError)
		c.err = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.watchers.publish(snap)

		slog.Warn("collection load failed", "request", name, "error", err)
		return settled, fmt.Errorf("loading %s: %w", name, err)
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	if appendPage {
		c.items = append(slices.Clip(c.items), items...)
	} else {
		c.items = items
		c.epoch++
	}
	c.nextPage = page.NextPage
	c.err = nil
	c.state = c.transitionLocked(model.LoadStateLoaded)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.watchers.publish(snap)

	return settled, nil
}

// transitionLocked applies a state change. Every change made by the
// collection is one the state machine allows, so a rejected transition is
// logged and the current state kept.
func (c *Collection[T]) transitionLocked(to model.LoadState) model.LoadState {
	next, err := c.state.Next(to)
	if err != nil {
		slog.Error("collection state", "error", err)
	}
	return next
}

func (c *Collection[T]) snapshotLocked() CollectionSnapshot[T] {
	return CollectionSnapshot[T]{
		Items:   slices.Clone(c.items),
		State:   c.state,
		Err:     c.err,
		Epoch:   c.epoch,
		HasMore: c.nextPage != 0,
	}
}
