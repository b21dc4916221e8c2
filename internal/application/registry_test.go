package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/codehub/internal/application"
)

func TestViewRegistry_ReusesViews(t *testing.T) {
	provider := application.NewGitHubClientProvider(&mockGitHubClient{}, "alice")
	reg, err := application.NewViewRegistry(provider, application.ViewDeps{}, 8)
	require.NoError(t, err)

	first, err := reg.PullRequest("owner/repo", 1)
	require.NoError(t, err)
	again, err := reg.PullRequest("owner/repo", 1)
	require.NoError(t, err)
	other, err := reg.PullRequest("owner/repo", 2)
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)

	open, err := reg.PullRequests(application.PullRequestQuery{Repo: "owner/repo"})
	require.NoError(t, err)
	openExplicit, err := reg.PullRequests(application.PullRequestQuery{Repo: "owner/repo", State: "open"})
	require.NoError(t, err)
	assert.Same(t, open, openExplicit)

	assert.Equal(t, 3, reg.Len())
}

func TestViewRegistry_AccountSwitchYieldsFreshViews(t *testing.T) {
	provider := application.NewGitHubClientProvider(&mockGitHubClient{}, "alice")
	reg, err := application.NewViewRegistry(provider, application.ViewDeps{}, 8)
	require.NoError(t, err)

	before, err := reg.Gists(application.StarredGists())
	require.NoError(t, err)

	provider.Replace(&mockGitHubClient{}, "bob")
	after, err := reg.Gists(application.StarredGists())
	require.NoError(t, err)

	assert.NotSame(t, before, after)
}

func TestViewRegistry_Evicts(t *testing.T) {
	provider := application.NewGitHubClientProvider(&mockGitHubClient{}, "alice")
	reg, err := application.NewViewRegistry(provider, application.ViewDeps{}, 2)
	require.NoError(t, err)

	for n := 1; n <= 3; n++ {
		_, err := reg.PullRequest("owner/repo", n)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, reg.Len())
}

func TestViewRegistry_NoClient(t *testing.T) {
	reg, err := application.NewViewRegistry(application.NewGitHubClientProvider(nil, ""), application.ViewDeps{}, 0)
	require.NoError(t, err)

	_, err = reg.PullRequest("owner/repo", 1)
	assert.ErrorIs(t, err, application.ErrNoClient)
	_, err = reg.Issues(application.IssueQuery{Repo: "owner/repo"})
	assert.ErrorIs(t, err, application.ErrNoClient)
}
