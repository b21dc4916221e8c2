package application

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedLoadTimeout bounds a load that no caller can cancel.
const sharedLoadTimeout = time.Minute

// loadGroup coalesces concurrent loads of one view. Callers arriving while a
// load runs wait for it instead of superseding it, and the load runs on a
// context detached from any single caller, so a caller going away neither
// cancels the fetch nor leaves "context canceled" in the shared state.
type loadGroup struct {
	flight singleflight.Group
}

// do runs load, or joins the one already running. A forced caller that
// joined an unforced load runs again once it finishes, so force always
// reaches the API. do returns early with ctx.Err() when ctx ends first; the
// load itself carries on.
func (l *loadGroup) do(ctx context.Context, force bool, load func(ctx context.Context, force bool) error) error {
	for {
		ch := l.flight.DoChan("load", func() (any, error) {
			loadCtx, cancel := detach(ctx)
			defer cancel()
			return force, load(loadCtx, force)
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-ch:
			if forced, _ := res.Val.(bool); force && !forced {
				continue
			}
			return res.Err
		}
	}
}

// detach returns a context that keeps ctx's values but not its cancellation,
// limited to sharedLoadTimeout.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
}
