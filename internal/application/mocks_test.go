package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// --- Mock implementations ---

// mockGitHubClient implements driven.GitHubClient. Nil function fields
// return empty results.
type mockGitHubClient struct {
	fetchPR        func(ctx context.Context, repo string, number int) (*model.PullRequest, error)
	fetchIssue     func(ctx context.Context, repo string, number int) (*model.Issue, error)
	listPRs        func(ctx context.Context, repo, state string, opts driven.ListOptions) (driven.Page[model.PullRequest], error)
	listIssues     func(ctx context.Context, repo, state string, opts driven.ListOptions) (driven.Page[model.Issue], error)
	listComments   func(ctx context.Context, repo string, number int, opts driven.ListOptions) (driven.Page[model.IssueComment], error)
	listEvents     func(ctx context.Context, repo string, number int, opts driven.ListOptions) (driven.Page[model.TimelineEvent], error)
	listUserGists  func(ctx context.Context, username string, opts driven.ListOptions) (driven.Page[model.Gist], error)
	createComment  func(ctx context.Context, repo string, number int, body string) (*model.IssueComment, error)
	merge          func(ctx context.Context, repo string, number int, msg string) error
	setState       func(ctx context.Context, repo string, number int, state model.PRState) (*model.PullRequest, error)
	validateToken  func(ctx context.Context, token string) (*model.User, error)
	starredCalls   int
	publicCalls    int
	mu             sync.Mutex
	forcedRequests int
}

var _ driven.GitHubClient = (*mockGitHubClient)(nil)

func (m *mockGitHubClient) noteForce(ctx context.Context) {
	if driven.IsForceRefresh(ctx) {
		m.mu.Lock()
		m.forcedRequests++
		m.mu.Unlock()
	}
}

func (m *mockGitHubClient) forced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forcedRequests
}

func (m *mockGitHubClient) FetchPullRequest(ctx context.Context, repo string, number int) (*model.PullRequest, error) {
	m.noteForce(ctx)
	if m.fetchPR == nil {
		return &model.PullRequest{Number: number, RepoFullName: repo}, nil
	}
	return m.fetchPR(ctx, repo, number)
}

func (m *mockGitHubClient) ListPullRequests(ctx context.Context, repo, state string, opts driven.ListOptions) (driven.Page[model.PullRequest], error) {
	m.noteForce(ctx)
	if m.listPRs == nil {
		return driven.Page[model.PullRequest]{}, nil
	}
	return m.listPRs(ctx, repo, state, opts)
}

func (m *mockGitHubClient) FetchIssue(ctx context.Context, repo string, number int) (*model.Issue, error) {
	m.noteForce(ctx)
	if m.fetchIssue == nil {
		return &model.Issue{Number: number, RepoFullName: repo}, nil
	}
	return m.fetchIssue(ctx, repo, number)
}

func (m *mockGitHubClient) ListIssues(ctx context.Context, repo, state string, opts driven.ListOptions) (driven.Page[model.Issue], error) {
	if m.listIssues == nil {
		return driven.Page[model.Issue]{}, nil
	}
	return m.listIssues(ctx, repo, state, opts)
}

func (m *mockGitHubClient) ListIssueComments(ctx context.Context, repo string, number int, opts driven.ListOptions) (driven.Page[model.IssueComment], error) {
	m.noteForce(ctx)
	if m.listComments == nil {
		return driven.Page[model.IssueComment]{}, nil
	}
	return m.listComments(ctx, repo, number, opts)
}

func (m *mockGitHubClient) ListIssueEvents(ctx context.Context, repo string, number int, opts driven.ListOptions) (driven.Page[model.TimelineEvent], error) {
	m.noteForce(ctx)
	if m.listEvents == nil {
		return driven.Page[model.TimelineEvent]{}, nil
	}
	return m.listEvents(ctx, repo, number, opts)
}

func (m *mockGitHubClient) ListUserGists(ctx context.Context, username string, opts driven.ListOptions) (driven.Page[model.Gist], error) {
	if m.listUserGists == nil {
		return driven.Page[model.Gist]{}, nil
	}
	return m.listUserGists(ctx, username, opts)
}

func (m *mockGitHubClient) ListStarredGists(_ context.Context, _ driven.ListOptions) (driven.Page[model.Gist], error) {
	m.starredCalls++
	return driven.Page[model.Gist]{}, nil
}

func (m *mockGitHubClient) ListPublicGists(_ context.Context, _ driven.ListOptions) (driven.Page[model.Gist], error) {
	m.publicCalls++
	return driven.Page[model.Gist]{}, nil
}

func (m *mockGitHubClient) CreateIssueComment(ctx context.Context, repo string, number int, body string) (*model.IssueComment, error) {
	return m.createComment(ctx, repo, number, body)
}

func (m *mockGitHubClient) MergePullRequest(ctx context.Context, repo string, number int, msg string) error {
	return m.merge(ctx, repo, number, msg)
}

func (m *mockGitHubClient) SetPullRequestState(ctx context.Context, repo string, number int, state model.PRState) (*model.PullRequest, error) {
	return m.setState(ctx, repo, number, state)
}

func (m *mockGitHubClient) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	return m.validateToken(ctx, token)
}

// recordingDisplay implements application.DetailDisplay.
type recordingDisplay struct {
	mu     sync.Mutex
	models []application.DetailModel
	busy   []bool
	alerts [][2]string
}

func (d *recordingDisplay) ShowDetail(m application.DetailModel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.models = append(d.models, m)
}

func (d *recordingDisplay) SetBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = append(d.busy, busy)
}

func (d *recordingDisplay) ShowAlert(title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, [2]string{title, message})
}

func (d *recordingDisplay) shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.models)
}

// mockAccountStore is an in-memory driven.AccountStore.
type mockAccountStore struct {
	accounts map[string]model.Account
	active   string
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: map[string]model.Account{}}
}

func (m *mockAccountStore) Save(_ context.Context, a model.Account) error {
	m.accounts[a.Login] = a
	return nil
}

func (m *mockAccountStore) Get(_ context.Context, login string) (*model.Account, error) {
	a, ok := m.accounts[login]
	if !ok {
		return nil, driven.ErrAccountNotFound
	}
	a.IsActive = login == m.active
	return &a, nil
}

func (m *mockAccountStore) GetActive(ctx context.Context) (*model.Account, error) {
	if m.active == "" {
		return nil, nil
	}
	return m.Get(ctx, m.active)
}

func (m *mockAccountStore) SetActive(_ context.Context, login string) error {
	if _, ok := m.accounts[login]; !ok {
		return driven.ErrAccountNotFound
	}
	m.active = login
	return nil
}

func (m *mockAccountStore) List(_ context.Context) ([]model.Account, error) {
	out := make([]model.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountStore) Delete(_ context.Context, login string) error {
	if _, ok := m.accounts[login]; !ok {
		return driven.ErrAccountNotFound
	}
	delete(m.accounts, login)
	if m.active == login {
		m.active = ""
	}
	return nil
}
