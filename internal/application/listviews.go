package application

import (
	"context"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// ListQuery builds the page request of a list view against a client.
type ListQuery[T any] interface {
	Request(client driven.GitHubReader) PageRequest[T]
}

// ListView owns one Collection and the query that fills it. The client is
// taken from the provider on every load, so an account switch applies to
// the next load.
type ListView[T any, Q ListQuery[T]] struct {
	provider *GitHubClientProvider
	query    Q
	items    *Collection[T]
	loads    loadGroup
}

// GistsView lists gists.
type GistsView = ListView[model.Gist, GistQuery]

// PullRequestsView lists the pull requests of a repository.
type PullRequestsView = ListView[model.PullRequest, PullRequestQuery]

// IssuesView lists the issues of a repository.
type IssuesView = ListView[model.Issue, IssueQuery]

// NewListView creates a list view for query.
func NewListView[T any, Q ListQuery[T]](provider *GitHubClientProvider, query Q, deps ViewDeps) *ListView[T, Q] {
	deps = deps.withDefaults()
	return &ListView[T, Q]{
		provider: provider,
		query:    query,
		items:    NewCollection[T](deps.Dispatcher, deps.PerPage),
	}
}

// NewGistsView creates a view over one of the gist listings.
func NewGistsView(provider *GitHubClientProvider, query GistQuery, deps ViewDeps) *GistsView {
	return NewListView[model.Gist](provider, query, deps)
}

// NewPullRequestsView creates a view over the pull requests of a repository.
func NewPullRequestsView(provider *GitHubClientProvider, query PullRequestQuery, deps ViewDeps) *PullRequestsView {
	return NewListView[model.PullRequest](provider, query, deps)
}

// NewIssuesView creates a view over the issues of a repository.
func NewIssuesView(provider *GitHubClientProvider, query IssueQuery, deps ViewDeps) *IssuesView {
	return NewListView[model.Issue](provider, query, deps)
}

// Load replaces the list with the first page of the query. Concurrent
// callers share one load.
func (v *ListView[T, Q]) Load(ctx context.Context, force bool) error {
	client := v.provider.Get()
	if client == nil {
		return ErrNoClient
	}
	return v.loads.do(ctx, force, func(ctx context.Context, force bool) error {
		return v.items.Load(ctx, v.query.Request(client), force)
	})
}

// LoadMore appends the next page, if any. The fetch is detached from ctx
// like Load.
func (v *ListView[T, Q]) LoadMore(ctx context.Context) error {
	loadCtx, cancel := detach(ctx)
	defer cancel()
	return v.items.LoadMore(loadCtx)
}

// Query returns the query the view was created with.
func (v *ListView[T, Q]) Query() Q {
	return v.query
}

// Items returns the underlying collection.
func (v *ListView[T, Q]) Items() *Collection[T] {
	return v.items
}
