package application

import (
	"fmt"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultRegistrySize bounds the number of views a ViewRegistry keeps.
const DefaultRegistrySize = 128

// ViewRegistry keeps views alive across requests so that repeated loads of
// the same resource keep their previous data on failure and modify
// operations on one pull request share a busy flag. Views are keyed by the
// active login; switching accounts yields fresh views.
type ViewRegistry struct {
	provider *GitHubClientProvider
	deps     ViewDeps

	mu    sync.Mutex
	views *lru.Cache
}

// NewViewRegistry creates a registry holding up to size views.
func NewViewRegistry(provider *GitHubClientProvider, deps ViewDeps, size int) (*ViewRegistry, error) {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating view cache: %w", err)
	}
	return &ViewRegistry{provider: provider, deps: deps, views: cache}, nil
}

// PullRequest returns the detail view of repo#number.
func (r *ViewRegistry) PullRequest(repo string, number int) (*PullRequestView, error) {
	client := r.provider.Get()
	if client == nil {
		return nil, ErrNoClient
	}
	key := r.key("pull", repo+"#"+strconv.Itoa(number))
	return lookup(r, key, func() *PullRequestView {
		return NewPullRequestView(client, repo, number, r.deps)
	}), nil
}

// PullRequests returns the list view for query.
func (r *ViewRegistry) PullRequests(query PullRequestQuery) (*PullRequestsView, error) {
	if !r.provider.HasClient() {
		return nil, ErrNoClient
	}
	key := r.key("pulls", query.Repo+"?"+stateOrOpen(query.State))
	return lookup(r, key, func() *PullRequestsView {
		return NewPullRequestsView(r.provider, query, r.deps)
	}), nil
}

// Issues returns the list view for query.
func (r *ViewRegistry) Issues(query IssueQuery) (*IssuesView, error) {
	if !r.provider.HasClient() {
		return nil, ErrNoClient
	}
	key := r.key("issues", query.Repo+"?"+stateOrOpen(query.State))
	return lookup(r, key, func() *IssuesView {
		return NewIssuesView(r.provider, query, r.deps)
	}), nil
}

// Gists returns the list view for query.
func (r *ViewRegistry) Gists(query GistQuery) (*GistsView, error) {
	if !r.provider.HasClient() {
		return nil, ErrNoClient
	}
	key := r.key("gists", strconv.Itoa(int(query.Source))+":"+query.Username)
	return lookup(r, key, func() *GistsView {
		return NewGistsView(r.provider, query, r.deps)
	}), nil
}

// Len returns the number of cached views.
func (r *ViewRegistry) Len() int {
	return r.views.Len()
}

func (r *ViewRegistry) key(kind, id string) string {
	return r.provider.Login() + "|" + kind + "|" + id
}

func lookup[V any](r *ViewRegistry, key string, build func() V) V {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.views.Get(key); ok {
		if v, ok := cached.(V); ok {
			return v
		}
	}
	v := build()
	r.views.Add(key, v)
	return v
}
