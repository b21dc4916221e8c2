package driven

import (
	"context"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// GitHubWriter defines the driven port for GitHub write operations.
// It is intentionally separate from GitHubReader following the Interface
// Segregation Principle. Each write returns the updated resource.
type GitHubWriter interface {
	// CreateIssueComment creates a top-level (non-diff) comment on a pull request.
	CreateIssueComment(ctx context.Context, repoFullName string, number int, body string) (*model.IssueComment, error)

	// MergePullRequest merges a pull request. commitMessage may be empty to
	// use GitHub's default message.
	MergePullRequest(ctx context.Context, repoFullName string, number int, commitMessage string) error

	// SetPullRequestState closes or reopens a pull request.
	SetPullRequestState(ctx context.Context, repoFullName string, number int, state model.PRState) (*model.PullRequest, error)

	// ValidateToken verifies that the given personal access token is valid
	// and returns the authenticated user on success.
	ValidateToken(ctx context.Context, token string) (*model.User, error)
}
