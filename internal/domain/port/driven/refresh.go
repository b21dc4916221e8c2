package driven

import "context"

type forceRefreshKey struct{}

// WithForceRefresh marks ctx so that GitHubReader calls made with it bypass
// any response cache held by the adapter and revalidate against the API.
func WithForceRefresh(ctx context.Context, force bool) context.Context {
	if !force {
		return ctx
	}
	return context.WithValue(ctx, forceRefreshKey{}, true)
}

// IsForceRefresh reports whether ctx was marked by WithForceRefresh.
func IsForceRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(forceRefreshKey{}).(bool)
	return v
}
