package application

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Loader is anything that can (re)load itself from the API.
type Loader interface {
	Load(ctx context.Context, force bool) error
}

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// WatchService reloads a view on a fixed interval and on demand. Interval
// loads may be answered from the HTTP cache; manual refreshes are forced.
type WatchService struct {
	target    Loader
	name      string
	interval  time.Duration
	refreshCh chan refreshRequest
}

// NewWatchService creates a WatchService for target. name identifies the
// target in logs.
func NewWatchService(target Loader, name string, interval time.Duration) *WatchService {
	return &WatchService{
		target:    target,
		name:      name,
		interval:  interval,
		refreshCh: make(chan refreshRequest),
	}
}

// Start runs an immediate load, then reloads on the configured interval. It
// also listens for manual refresh requests. Start blocks until the context
// is canceled.
func (s *WatchService) Start(ctx context.Context) {
	s.load(ctx, false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped", "target", s.name)
			return
		case <-ticker.C:
			s.load(ctx, false)
		case req := <-s.refreshCh:
			req.done <- s.load(ctx, true)
		}
	}
}

// Refresh triggers a forced reload, bypassing the interval. It blocks until
// the reload completes or the context is canceled.
func (s *WatchService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- refreshRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *WatchService) load(ctx context.Context, force bool) error {
	start := time.Now()
	err := s.target.Load(ctx, force)
	if err != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
		slog.Error("watch reload failed", "target", s.name, "force", force, "error", err)
		return err
	}

	slog.Debug("watch reload complete",
		"target", s.name,
		"force", force,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
