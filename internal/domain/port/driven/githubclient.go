package driven

import (
	"context"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// ListOptions selects one page of a paginated list endpoint.
type ListOptions struct {
	Page    int // 1-based; 0 is treated as 1.
	PerPage int // 0 lets the adapter choose its default.
}

// Page is one page of a paginated list. NextPage is 0 on the last page.
type Page[T any] struct {
	Items    []T
	NextPage int
}

// GitHubReader defines the driven port for reading resources from the GitHub API.
// List methods return a single page; callers drive pagination through NextPage.
type GitHubReader interface {
	// FetchPullRequest returns a single pull request.
	FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error)
	// ListPullRequests returns one page of pull requests in the given state
	// ("open", "closed" or "all").
	ListPullRequests(ctx context.Context, repoFullName string, state string, opts ListOptions) (Page[model.PullRequest], error)

	// FetchIssue returns the issue record of an issue or pull request.
	FetchIssue(ctx context.Context, repoFullName string, number int) (*model.Issue, error)
	// ListIssues returns one page of issues in the given state. Pull requests
	// are filtered out.
	ListIssues(ctx context.Context, repoFullName string, state string, opts ListOptions) (Page[model.Issue], error)
	// ListIssueComments returns one page of PR-level comments.
	ListIssueComments(ctx context.Context, repoFullName string, number int, opts ListOptions) (Page[model.IssueComment], error)
	// ListIssueEvents returns one page of timeline events.
	ListIssueEvents(ctx context.Context, repoFullName string, number int, opts ListOptions) (Page[model.TimelineEvent], error)

	// ListUserGists returns one page of the given user's gists.
	ListUserGists(ctx context.Context, username string, opts ListOptions) (Page[model.Gist], error)
	// ListStarredGists returns one page of gists starred by the authenticated user.
	ListStarredGists(ctx context.Context, opts ListOptions) (Page[model.Gist], error)
	// ListPublicGists returns one page of recent public gists.
	ListPublicGists(ctx context.Context, opts ListOptions) (Page[model.Gist], error)
}

// GitHubClient is the full API surface an account-bound client offers.
type GitHubClient interface {
	GitHubReader
	GitHubWriter
}
