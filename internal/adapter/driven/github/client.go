// Package github implements the GitHubReader and GitHubWriter ports using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// defaultPerPage is used when the caller does not choose a page size.
const defaultPerPage = 30

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh      *gh.Client
	perPage int
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. refreshTransport (adds Cache-Control: no-cache to forced refreshes)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (GitHub REST API client with PAT auth)
//
// apiURL may be empty for github.com, or the API root of a GitHub Enterprise
// instance (e.g. https://ghe.example.com/api/v3/).
func NewClient(token, apiURL string, perPage int) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(&refreshTransport{next: cacheTransport})
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	if apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", apiURL, err)
		}
	}

	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return &Client{gh: client, perPage: perPage}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client, perPage: defaultPerPage}, nil
}

// FetchPullRequest returns a single pull request including mergeability and
// diff statistics, which the list endpoint does not carry.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/pull", 0, 1)

	mapped := mapPullRequest(pr, repoFullName)
	return &mapped, nil
}

// ListPullRequests returns one page of pull requests sorted by most recent update.
// Valid state values are "open", "closed", or "all" (as accepted by the GitHub API).
func (c *Client) ListPullRequests(ctx context.Context, repoFullName string, state string, opts driven.ListOptions) (driven.Page[model.PullRequest], error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return driven.Page[model.PullRequest]{}, err
	}

	ghOpts := &gh.PullRequestListOptions{
		State:       state,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: c.listOptions(opts),
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, ghOpts)
	if err != nil {
		return driven.Page[model.PullRequest]{}, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, ghOpts.Page, err)
	}

	logRateLimit(resp, repoFullName+"/pulls", ghOpts.Page, len(prs))

	items := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		items = append(items, mapPullRequest(pr, repoFullName))
	}

	return driven.Page[model.PullRequest]{Items: items, NextPage: resp.NextPage}, nil
}

// FetchIssue returns the issue record for an issue or pull request number.
func (c *Client) FetchIssue(ctx context.Context, repoFullName string, number int) (*model.Issue, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/issue", 0, 1)

	mapped := mapIssue(issue, repoFullName)
	return &mapped, nil
}

// ListIssues returns one page of issues. The Issues API also returns pull
// requests; those are dropped, so a page may hold fewer items than requested.
func (c *Client) ListIssues(ctx context.Context, repoFullName string, state string, opts driven.ListOptions) (driven.Page[model.Issue], error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return driven.Page[model.Issue]{}, err
	}

	ghOpts := &gh.IssueListByRepoOptions{
		State:       state,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: c.listOptions(opts),
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, ghOpts)
	if err != nil {
		return driven.Page[model.Issue]{}, fmt.Errorf("listing issues for %s (page %d): %w", repoFullName, ghOpts.Page, err)
	}

	logRateLimit(resp, repoFullName+"/issues", ghOpts.Page, len(issues))

	items := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		items = append(items, mapIssue(issue, repoFullName))
	}

	return driven.Page[model.Issue]{Items: items, NextPage: resp.NextPage}, nil
}

// ListIssueComments returns one page of general PR-level comments (from the Issues API).
func (c *Client) ListIssueComments(ctx context.Context, repoFullName string, number int, opts driven.ListOptions) (driven.Page[model.IssueComment], error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return driven.Page[model.IssueComment]{}, err
	}

	ghOpts := &gh.IssueListCommentsOptions{ListOptions: c.listOptions(opts)}

	comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, ghOpts)
	if err != nil {
		return driven.Page[model.IssueComment]{}, fmt.Errorf("listing issue comments for %s#%d (page %d): %w", repoFullName, number, ghOpts.Page, err)
	}

	logRateLimit(resp, repoFullName+"/comments", ghOpts.Page, len(comments))

	items := make([]model.IssueComment, 0, len(comments))
	for _, comment := range comments {
		items = append(items, mapIssueComment(comment))
	}

	return driven.Page[model.IssueComment]{Items: items, NextPage: resp.NextPage}, nil
}

// ListIssueEvents returns one page of timeline events for an issue or pull request.
func (c *Client) ListIssueEvents(ctx context.Context, repoFullName string, number int, opts driven.ListOptions) (driven.Page[model.TimelineEvent], error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return driven.Page[model.TimelineEvent]{}, err
	}

	ghOpts := c.listOptions(opts)

	events, resp, err := c.gh.Issues.ListIssueEvents(ctx, owner, repo, number, &ghOpts)
	if err != nil {
		return driven.Page[model.TimelineEvent]{}, fmt.Errorf("listing issue events for %s#%d (page %d): %w", repoFullName, number, ghOpts.Page, err)
	}

	logRateLimit(resp, repoFullName+"/events", ghOpts.Page, len(events))

	items := make([]model.TimelineEvent, 0, len(events))
	for _, ev := range events {
		items = append(items, mapIssueEvent(ev))
	}

	return driven.Page[model.TimelineEvent]{Items: items, NextPage: resp.NextPage}, nil
}

// ListUserGists returns one page of the given user's gists. An empty username
// lists the authenticated user's gists.
func (c *Client) ListUserGists(ctx context.Context, username string, opts driven.ListOptions) (driven.Page[model.Gist], error) {
	ghOpts := &gh.GistListOptions{ListOptions: c.listOptions(opts)}

	gists, resp, err := c.gh.Gists.List(ctx, username, ghOpts)
	if err != nil {
		return driven.Page[model.Gist]{}, fmt.Errorf("listing gists for %q (page %d): %w", username, ghOpts.Page, err)
	}

	logRateLimit(resp, "gists/"+username, ghOpts.Page, len(gists))

	return driven.Page[model.Gist]{Items: mapGists(gists), NextPage: resp.NextPage}, nil
}

// ListStarredGists returns one page of gists starred by the authenticated user.
func (c *Client) ListStarredGists(ctx context.Context, opts driven.ListOptions) (driven.Page[model.Gist], error) {
	ghOpts := &gh.GistListOptions{ListOptions: c.listOptions(opts)}

	gists, resp, err := c.gh.Gists.ListStarred(ctx, ghOpts)
	if err != nil {
		return driven.Page[model.Gist]{}, fmt.Errorf("listing starred gists (page %d): %w", ghOpts.Page, err)
	}

	logRateLimit(resp, "gists/starred", ghOpts.Page, len(gists))

	return driven.Page[model.Gist]{Items: mapGists(gists), NextPage: resp.NextPage}, nil
}

// ListPublicGists returns one page of recent public gists.
func (c *Client) ListPublicGists(ctx context.Context, opts driven.ListOptions) (driven.Page[model.Gist], error) {
	ghOpts := &gh.GistListOptions{ListOptions: c.listOptions(opts)}

	gists, resp, err := c.gh.Gists.ListAll(ctx, ghOpts)
	if err != nil {
		return driven.Page[model.Gist]{}, fmt.Errorf("listing public gists (page %d): %w", ghOpts.Page, err)
	}

	logRateLimit(resp, "gists/public", ghOpts.Page, len(gists))

	return driven.Page[model.Gist]{Items: mapGists(gists), NextPage: resp.NextPage}, nil
}

func (c *Client) listOptions(opts driven.ListOptions) gh.ListOptions {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = c.perPage
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return gh.ListOptions{Page: page, PerPage: perPage}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
