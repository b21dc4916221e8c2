package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/codehub/internal/adapter/driving/http"
	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockClient struct {
	mu           sync.Mutex
	pulls        func(page int) (driven.Page[model.PullRequest], error)
	pr           *model.PullRequest
	prErr        error
	prGate       func(ctx context.Context, call int) error
	prCalls      int
	pullsGate    func(ctx context.Context) error
	events       []model.TimelineEvent
	comments     []model.IssueComment
	createErr    error
	createGate   chan struct{}
	merged       bool
	starredCalls int
	userGists    string
}

var _ driven.GitHubClient = (*mockClient)(nil)

func (m *mockClient) FetchPullRequest(ctx context.Context, repo string, number int) (*model.PullRequest, error) {
	m.mu.Lock()
	m.prCalls++
	call, gate := m.prCalls, m.prGate
	m.mu.Unlock()
	if gate != nil {
		if err := gate(ctx, call); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prErr != nil {
		return nil, m.prErr
	}
	pr := *m.pr
	pr.Merged = pr.Merged || m.merged
	return &pr, nil
}

func (m *mockClient) ListPullRequests(ctx context.Context, _ string, _ string, opts driven.ListOptions) (driven.Page[model.PullRequest], error) {
	if m.pullsGate != nil {
		if err := m.pullsGate(ctx); err != nil {
			return driven.Page[model.PullRequest]{}, err
		}
	}
	return m.pulls(opts.Page)
}

func (m *mockClient) FetchIssue(_ context.Context, repo string, number int) (*model.Issue, error) {
	return &model.Issue{Number: number, RepoFullName: repo}, nil
}

func (m *mockClient) ListIssues(_ context.Context, repo, _ string, _ driven.ListOptions) (driven.Page[model.Issue], error) {
	return driven.Page[model.Issue]{Items: []model.Issue{{Number: 9, RepoFullName: repo, Title: "Crash"}}}, nil
}

func (m *mockClient) ListIssueComments(_ context.Context, _ string, _ int, _ driven.ListOptions) (driven.Page[model.IssueComment], error) {
	return driven.Page[model.IssueComment]{Items: m.comments}, nil
}

func (m *mockClient) ListIssueEvents(_ context.Context, _ string, _ int, _ driven.ListOptions) (driven.Page[model.TimelineEvent], error) {
	return driven.Page[model.TimelineEvent]{Items: m.events}, nil
}

func (m *mockClient) ListUserGists(_ context.Context, username string, _ driven.ListOptions) (driven.Page[model.Gist], error) {
	m.userGists = username
	return driven.Page[model.Gist]{Items: []model.Gist{{ID: "g1", Files: []model.GistFile{{Filename: "main.go"}}}}}, nil
}

func (m *mockClient) ListStarredGists(_ context.Context, _ driven.ListOptions) (driven.Page[model.Gist], error) {
	m.starredCalls++
	return driven.Page[model.Gist]{}, nil
}

func (m *mockClient) ListPublicGists(_ context.Context, _ driven.ListOptions) (driven.Page[model.Gist], error) {
	return driven.Page[model.Gist]{}, nil
}

func (m *mockClient) CreateIssueComment(_ context.Context, _ string, _ int, body string) (*model.IssueComment, error) {
	if m.createGate != nil {
		<-m.createGate
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &model.IssueComment{ID: 77, Body: body, User: model.User{Login: "alice"}, CreatedAt: testTime}, nil
}

func (m *mockClient) MergePullRequest(_ context.Context, _ string, _ int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merged = true
	return nil
}

func (m *mockClient) SetPullRequestState(_ context.Context, _ string, _ int, state model.PRState) (*model.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pr.State = state
	pr := *m.pr
	return &pr, nil
}

func (m *mockClient) ValidateToken(_ context.Context, token string) (*model.User, error) {
	if token != "good" {
		return nil, errors.New("401 Bad credentials")
	}
	return &model.User{Login: "alice"}, nil
}

type mockPinnedStore struct {
	repos map[string]model.PinnedRepo
}

func (m *mockPinnedStore) Add(_ context.Context, repo model.PinnedRepo) error {
	if _, ok := m.repos[repo.FullName]; ok {
		return driven.ErrRepoAlreadyExists
	}
	m.repos[repo.FullName] = repo
	return nil
}

func (m *mockPinnedStore) Remove(_ context.Context, fullName string) error {
	if _, ok := m.repos[fullName]; !ok {
		return driven.ErrRepoNotFound
	}
	delete(m.repos, fullName)
	return nil
}

func (m *mockPinnedStore) GetByFullName(_ context.Context, fullName string) (*model.PinnedRepo, error) {
	repo, ok := m.repos[fullName]
	if !ok {
		return nil, nil
	}
	return &repo, nil
}

func (m *mockPinnedStore) ListAll(_ context.Context) ([]model.PinnedRepo, error) {
	out := make([]model.PinnedRepo, 0, len(m.repos))
	for _, r := range m.repos {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type mockAccountStore struct {
	accounts map[string]model.Account
	active   string
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
	for login, a := range m.accounts {
		a.IsActive = login == m.active
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountStore) Delete(_ context.Context, login string) error {
	if _, ok := m.accounts[login]; !ok {
		return driven.ErrAccountNotFound
	}
	delete(m.accounts, login)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// --- Test helpers ---

var testTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	client   *mockClient
	provider *application.GitHubClientProvider
	pins     *mockPinnedStore
	store    *mockAccountStore
	mux      http.Handler
}

func newClient() *mockClient {
	return &mockClient{
		pulls: func(int) (driven.Page[model.PullRequest], error) {
			return driven.Page[model.PullRequest]{Items: []model.PullRequest{{Number: 1, RepoFullName: "owner/repo", Title: "Fix"}}}, nil
		},
		pr: &model.PullRequest{
			Number:       1,
			RepoFullName: "owner/repo",
			Title:        "Fix bug",
			State:        model.PRStateOpen,
			Author:       model.User{Login: "alice"},
			CreatedAt:    testTime,
			UpdatedAt:    testTime,
		},
	}
}

type envOption func(*envConfig)

type envConfig struct {
	pingErr    error
	noAccounts bool
	noClient   bool
}

func withPingError(err error) envOption { return func(c *envConfig) { c.pingErr = err } }
func withoutAccounts() envOption        { return func(c *envConfig) { c.noAccounts = true } }
func withoutClient() envOption          { return func(c *envConfig) { c.noClient = true } }

func setupEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	client := newClient()
	provider := application.NewGitHubClientProvider(client, "alice")
	if cfg.noClient {
		provider = application.NewGitHubClientProvider(nil, "")
	}

	views, err := application.NewViewRegistry(provider, application.ViewDeps{}, 16)
	require.NoError(t, err)

	store := &mockAccountStore{accounts: map[string]model.Account{}}
	var accounts *application.AccountService
	if !cfg.noAccounts {
		accounts = application.NewAccountService(store, provider, func(string, string) (driven.GitHubClient, error) {
			return client, nil
		})
	}

	pins := &mockPinnedStore{repos: map[string]model.PinnedRepo{}}
	health := application.NewHealthService(stubPinger{err: cfg.pingErr}, provider)

	h := httphandler.NewHandler(views, accounts, pins, health, slog.Default())
	return &testEnv{
		client:   client,
		provider: provider,
		pins:     pins,
		store:    store,
		mux:      httphandler.NewServeMux(h, slog.Default()),
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		opts       []envOption
		wantStatus int
		wantBody   string
	}{
		{name: "ok", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "database down", opts: []envOption{withPingError(errors.New("disk I/O error"))}, wantStatus: http.StatusServiceUnavailable, wantBody: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, tt.opts...)

			rec := env.do(t, http.MethodGet, "/api/v1/health", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			decodeJSON(t, rec, &body)
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "alice", body["account"])
		})
	}
}

func TestListPullRequests(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items     []map[string]any `json:"items"`
		LoadState string           `json:"load_state"`
		HasMore   bool             `json:"has_more"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Fix", body.Items[0]["title"])
	assert.Equal(t, "loaded", body.LoadState)
	assert.False(t, body.HasMore)
}

func TestListPullRequests_FailureWithoutDataIs502(t *testing.T) {
	env := setupEnv(t)
	env.client.pulls = func(int) (driven.Page[model.PullRequest], error) {
		return driven.Page[model.PullRequest]{}, errors.New("502 Bad Gateway")
	}

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Contains(t, body["error"], "502 Bad Gateway")
}

func TestListPullRequests_FailureKeepsPreviousData(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env.client.pulls = func(int) (driven.Page[model.PullRequest], error) {
		return driven.Page[model.PullRequest]{}, errors.New("timeout")
	}
	rec = env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls?refresh=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items     []map[string]any `json:"items"`
		LoadState string           `json:"load_state"`
		Error     string           `json:"error"`
	}
	decodeJSON(t, rec, &body)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, "loaded_with_error", body.LoadState)
	assert.Contains(t, body.Error, "timeout")
}

func TestListPullRequests_LoadMore(t *testing.T) {
	env := setupEnv(t)
	env.client.pulls = func(page int) (driven.Page[model.PullRequest], error) {
		next := 0
		if page == 1 {
			next = 2
		}
		return driven.Page[model.PullRequest]{Items: []model.PullRequest{{Number: page}}, NextPage: next}, nil
	}

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls?more=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items   []map[string]any `json:"items"`
		HasMore bool             `json:"has_more"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Items, 2)
	assert.Equal(t, float64(2), body.Items[1]["number"])
	assert.False(t, body.HasMore)
}

func TestListPullRequests_ConcurrentRequestsShareOneLoad(t *testing.T) {
	env := setupEnv(t)
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	env.client.pullsGate = func(ctx context.Context) error {
		entered <- struct{}{}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	type result struct {
		code  int
		items int
		state string
	}
	results := make(chan result, 2)
	get := func() {
		rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")
		var body struct {
			Items     []map[string]any `json:"items"`
			LoadState string           `json:"load_state"`
		}
		_ = json.NewDecoder(rec.Body).Decode(&body)
		results <- result{code: rec.Code, items: len(body.Items), state: body.LoadState}
	}
	go get()
	<-entered
	go get()
	time.Sleep(50 * time.Millisecond)
	close(release)

	for range 2 {
		r := <-results
		assert.Equal(t, http.StatusOK, r.code)
		assert.Equal(t, 1, r.items)
		assert.Equal(t, "loaded", r.state)
	}
	assert.Empty(t, entered, "the second request joins the running load")
}

func TestListPullRequests_InvalidRepo(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/re%21po/pulls", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPullRequests_NoClient(t *testing.T) {
	env := setupEnv(t, withoutClient())

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListIssues(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/issues?state=all", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []map[string]any `json:"items"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Crash", body.Items[0]["title"])
	labels, ok := body.Items[0]["labels"].([]any)
	require.True(t, ok, "labels is an array, not null")
	assert.Empty(t, labels)
}

func TestListGists(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/gists?user=octocat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "octocat", env.client.userGists)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "main.go", body.Items[0]["title"])

	rec = env.do(t, http.MethodGet, "/api/v1/gists?starred=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.client.starredCalls)
}

func TestGetPullRequest(t *testing.T) {
	env := setupEnv(t)
	env.client.comments = []model.IssueComment{
		{ID: 1, User: model.User{Login: "bob"}, Body: "LGTM", CreatedAt: testTime.Add(time.Hour)},
	}
	env.client.events = []model.TimelineEvent{
		{Kind: model.EventMerged, CommitID: "abcdef1234", Actor: model.User{Login: "alice"}, CreatedAt: testTime.Add(2 * time.Hour)},
		{Kind: "labeled", CreatedAt: testTime.Add(3 * time.Hour)},
	}

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body httphandler.PullRequestDetailResponse
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Fix bug", body.PullRequest.Title)
	assert.Equal(t, "loaded", body.LoadState)
	assert.Empty(t, body.Error)
	require.Len(t, body.Feed, 2)
	assert.Equal(t, "LGTM", body.Feed[0].Body)
	assert.Equal(t, "merged", body.Feed[1].Event)
	assert.Equal(t, "Merged commit abcdef1", body.Feed[1].Text)
	assert.True(t, body.View.Ready)
	assert.Equal(t, "Pull Request #1", body.View.Title)
}

func TestGetPullRequest_ConcurrentRequestsShareOneLoad(t *testing.T) {
	env := setupEnv(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var firstCanceled bool
	env.client.prGate = func(ctx context.Context, call int) error {
		if call != 1 {
			time.Sleep(100 * time.Millisecond)
			return nil
		}
		close(entered)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			firstCanceled = true
			return ctx.Err()
		}
	}

	codes := make(chan int, 2)
	get := func() {
		codes <- env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls/1", "").Code
	}
	go get()
	<-entered
	go get()
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, http.StatusOK, <-codes)
	assert.Equal(t, http.StatusOK, <-codes)
	assert.False(t, firstCanceled, "a second request must not cancel the first load")
	env.client.mu.Lock()
	assert.Equal(t, 1, env.client.prCalls, "concurrent requests share the load")
	env.client.mu.Unlock()
}

func TestGetPullRequest_ClientDisconnectDoesNotPoisonView(t *testing.T) {
	env := setupEnv(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	env.client.prGate = func(ctx context.Context, call int) error {
		if call != 1 {
			return nil
		}
		close(entered)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/owner/repo/pulls/1", nil).WithContext(ctx)
		env.mux.ServeHTTP(httptest.NewRecorder(), req)
	}()
	<-entered
	cancel()
	<-done
	close(release)

	require.EventuallyWithT(t, func(c *assert.CollectT) {
		rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls/1", "")
		require.Equal(c, http.StatusOK, rec.Code)
		var body httphandler.PullRequestDetailResponse
		require.NoError(c, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(c, "loaded", body.LoadState)
		assert.Empty(c, body.Error)
		assert.Equal(c, "Fix bug", body.PullRequest.Title)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetPullRequest_FetchFailure(t *testing.T) {
	env := setupEnv(t)
	env.client.prErr = errors.New("404 Not Found")

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls/1", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetPullRequest_InvalidNumber(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/repos/owner/repo/pulls/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddComment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{name: "created", body: `{"body":"Nice work"}`, wantStatus: http.StatusCreated},
		{name: "empty body", body: `{"body":"  "}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "api failure", body: `{"body":"Nice"}`, createErr: errors.New("403 Forbidden"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			env.client.createErr = tt.createErr

			rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/comments", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var body httphandler.CommentResponse
				decodeJSON(t, rec, &body)
				assert.Equal(t, int64(77), body.ID)
				assert.Equal(t, "Nice work", body.Body)
			}
		})
	}
}

func TestAddComment_ConcurrentModifyIs409(t *testing.T) {
	env := setupEnv(t)
	env.client.createGate = make(chan struct{})

	firstDone := make(chan int)
	go func() {
		rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/comments", `{"body":"first"}`)
		firstDone <- rec.Code
	}()

	require.Eventually(t, func() bool {
		rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/state", "")
		return rec.Code == http.StatusConflict
	}, 2*time.Second, 10*time.Millisecond)

	close(env.client.createGate)
	assert.Equal(t, http.StatusCreated, <-firstDone)
}

func TestMerge(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/merge", `{"message":"ship it"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httphandler.PullRequestDetailResponse
	decodeJSON(t, rec, &body)
	assert.True(t, body.PullRequest.Merged)
	assert.Equal(t, "merged", body.PullRequest.MergeStatus)
}

func TestMerge_EmptyBody(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/merge", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToggleState(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/repos/owner/repo/pulls/1/state", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body httphandler.PullRequestDetailResponse
	decodeJSON(t, rec, &body)
	assert.Equal(t, "closed", body.PullRequest.State)
}

func TestAccounts(t *testing.T) {
	env := setupEnv(t, withoutClient())

	rec := env.do(t, http.MethodPost, "/api/v1/accounts", `{"token":"good"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added httphandler.AccountResponse
	decodeJSON(t, rec, &added)
	assert.Equal(t, "alice", added.Login)
	assert.True(t, added.IsActive)
	assert.True(t, env.provider.HasClient())

	rec = env.do(t, http.MethodGet, "/api/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "good", "tokens are never returned")

	rec = env.do(t, http.MethodPost, "/api/v1/accounts/alice/activate", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/accounts/nobody/activate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/accounts/alice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.provider.HasClient())

	rec = env.do(t, http.MethodDelete, "/api/v1/accounts/alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAccount_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "missing token", body: `{"token":""}`, wantStatus: http.StatusBadRequest},
		{name: "rejected token", body: `{"token":"bad"}`, wantStatus: http.StatusBadGateway},
		{name: "invalid json", body: `nope`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)

			rec := env.do(t, http.MethodPost, "/api/v1/accounts", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAccounts_WithoutSecretKey(t *testing.T) {
	env := setupEnv(t, withoutAccounts())

	rec := env.do(t, http.MethodGet, "/api/v1/accounts", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "CODEHUB_SECRET_KEY")
}

func TestPinned(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/pinned", `{"full_name":"owner/repo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var pinned httphandler.PinnedRepoResponse
	decodeJSON(t, rec, &pinned)
	assert.Equal(t, "owner", pinned.Owner)
	assert.Equal(t, "repo", pinned.Name)

	rec = env.do(t, http.MethodPost, "/api/v1/pinned", `{"full_name":"owner/repo"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/pinned", `{"full_name":"not-a-repo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/pinned", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []httphandler.PinnedRepoResponse
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "owner/repo", list[0].FullName)

	rec = env.do(t, http.MethodDelete, "/api/v1/pinned/owner/repo", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/pinned/owner/repo", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_RequestID(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Len(t, rec.Header().Get(httphandler.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(httphandler.RequestIDHeader, "caller-id")
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(httphandler.RequestIDHeader))
}

func TestMiddleware_RecoversPanics(t *testing.T) {
	h := httphandler.Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), slog.Default())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
