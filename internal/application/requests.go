package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// PullRequestQuery selects the pull requests of one repository.
type PullRequestQuery struct {
	Repo  string
	State string // "open", "closed" or "all"; empty means "open".
}

// Request builds the page request for q against client.
func (q PullRequestQuery) Request(client driven.GitHubReader) PageRequest[model.PullRequest] {
	state := stateOrOpen(q.State)
	return PageRequest[model.PullRequest]{
		Name: fmt.Sprintf("%s/pulls?state=%s", q.Repo, state),
		Fetch: func(ctx context.Context, opts driven.ListOptions) (driven.Page[model.PullRequest], error) {
			return client.ListPullRequests(ctx, q.Repo, state, opts)
		},
	}
}

// IssueQuery selects the issues of one repository.
type IssueQuery struct {
	Repo  string
	State string
}

// Request builds the page request for q against client.
func (q IssueQuery) Request(client driven.GitHubReader) PageRequest[model.Issue] {
	state := stateOrOpen(q.State)
	return PageRequest[model.Issue]{
		Name: fmt.Sprintf("%s/issues?state=%s", q.Repo, state),
		Fetch: func(ctx context.Context, opts driven.ListOptions) (driven.Page[model.Issue], error) {
			return client.ListIssues(ctx, q.Repo, state, opts)
		},
	}
}

// GistSource is the gist listing a GistQuery reads from.
type GistSource int

const (
	GistSourceUser GistSource = iota
	GistSourceStarred
	GistSourcePublic
)

// GistQuery selects one of the gist listings.
type GistQuery struct {
	Source   GistSource
	Username string // Only for GistSourceUser; empty means the authenticated user.
}

// UserGists lists the gists owned by username.
func UserGists(username string) GistQuery {
	return GistQuery{Source: GistSourceUser, Username: username}
}

// StarredGists lists the gists starred by the authenticated user.
func StarredGists() GistQuery {
	return GistQuery{Source: GistSourceStarred}
}

// PublicGists lists recent public gists.
func PublicGists() GistQuery {
	return GistQuery{Source: GistSourcePublic}
}

// Request builds the page request for q against client.
func (q GistQuery) Request(client driven.GitHubReader) PageRequest[model.Gist] {
	switch q.Source {
	case GistSourceStarred:
		return PageRequest[model.Gist]{Name: "gists/starred", Fetch: client.ListStarredGists}
	case GistSourcePublic:
		return PageRequest[model.Gist]{Name: "gists/public", Fetch: client.ListPublicGists}
	default:
		return PageRequest[model.Gist]{
			Name: "gists/" + q.Username,
			Fetch: func(ctx context.Context, opts driven.ListOptions) (driven.Page[model.Gist], error) {
				return client.ListUserGists(ctx, q.Username, opts)
			},
		}
	}
}

// IssueCommentsRequest lists the conversation comments of a pull request or issue.
func IssueCommentsRequest(client driven.GitHubReader, repo string, number int) PageRequest[model.IssueComment] {
	return PageRequest[model.IssueComment]{
		Name: fmt.Sprintf("%s#%d/comments", repo, number),
		Fetch: func(ctx context.Context, opts driven.ListOptions) (driven.Page[model.IssueComment], error) {
			return client.ListIssueComments(ctx, repo, number, opts)
		},
	}
}

// IssueEventsRequest lists the timeline events of a pull request or issue.
func IssueEventsRequest(client driven.GitHubReader, repo string, number int) PageRequest[model.TimelineEvent] {
	return PageRequest[model.TimelineEvent]{
		Name: fmt.Sprintf("%s#%d/events", repo, number),
		Fetch: func(ctx context.Context, opts driven.ListOptions) (driven.Page[model.TimelineEvent], error) {
			return client.ListIssueEvents(ctx, repo, number, opts)
		},
	}
}

func stateOrOpen(state string) string {
	if state == "" {
		return "open"
	}
	return state
}
