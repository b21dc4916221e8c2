package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubWriter = (*Client)(nil)

// ValidateToken verifies that the given GitHub personal access token is valid
// and returns the authenticated user on success. It creates a one-shot
// client with the provided token to avoid mutating the receiver's state,
// reusing the receiver's base URL so Enterprise and test servers work.
func (c *Client) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	tempClient := gh.NewClient(httpClient).WithAuthToken(token)
	tempClient.BaseURL = c.gh.BaseURL

	user, _, err := tempClient.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	mapped := mapUser(user)
	return &mapped, nil
}

// CreateIssueComment creates a top-level (non-diff) comment on a pull request
// and returns the created comment.
func (c *Client) CreateIssueComment(ctx context.Context, repoFullName string, number int, body string) (*model.IssueComment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	created, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("creating issue comment on %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/create-comment", 0, 1)

	mapped := mapIssueComment(created)
	return &mapped, nil
}

// MergePullRequest merges a pull request using the repository's default merge method.
func (c *Client) MergePullRequest(ctx context.Context, repoFullName string, number int, commitMessage string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	result, resp, err := c.gh.PullRequests.Merge(ctx, owner, repo, number, commitMessage, nil)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusMethodNotAllowed {
			return fmt.Errorf("pull request %s#%d is not mergeable: %w", repoFullName, number, err)
		}
		return fmt.Errorf("merging pull request %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/merge", 0, 1)

	if !result.GetMerged() {
		return fmt.Errorf("merging pull request %s#%d: %s", repoFullName, number, result.GetMessage())
	}

	return nil
}

// SetPullRequestState closes or reopens a pull request and returns the updated record.
func (c *Client) SetPullRequestState(ctx context.Context, repoFullName string, number int, state model.PRState) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	updated, resp, err := c.gh.PullRequests.Edit(ctx, owner, repo, number, &gh.PullRequest{
		State: gh.Ptr(string(state)),
	})
	if err != nil {
		return nil, fmt.Errorf("setting state %q on %s#%d: %w", state, repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/edit", 0, 1)

	mapped := mapPullRequest(updated, repoFullName)
	return &mapped, nil
}
