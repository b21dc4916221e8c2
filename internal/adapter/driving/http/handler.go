// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	views    *application.ViewRegistry
	accounts *application.AccountService
	pins     driven.PinnedRepoStore
	health   *application.HealthService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. accounts may
// be nil when no secret key is configured; account routes then answer 503.
func NewHandler(
	views *application.ViewRegistry,
	accounts *application.AccountService,
	pins driven.PinnedRepoStore,
	health *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		views:    views,
		accounts: accounts,
		pins:     pins,
		health:   health,
		logger:   logger,
	}
}

// RegisterRoutes registers all API routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/pulls", h.ListPullRequests)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/pulls/{number}", h.GetPullRequest)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/pulls/{number}/comments", h.AddComment)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/pulls/{number}/merge", h.Merge)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/pulls/{number}/state", h.ToggleState)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/issues", h.ListIssues)
	mux.HandleFunc("GET /api/v1/gists", h.ListGists)

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.AddAccount)
	mux.HandleFunc("POST /api/v1/accounts/{login}/activate", h.ActivateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{login}", h.RemoveAccount)

	mux.HandleFunc("GET /api/v1/pinned", h.ListPinned)
	mux.HandleFunc("POST /api/v1/pinned", h.AddPinned)
	mux.HandleFunc("DELETE /api/v1/pinned/{owner}/{repo}", h.RemovePinned)
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with request id, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return Wrap(mux, logger)
}

// Wrap applies the middleware chain shared by the API and the web pages.
func Wrap(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Health reports database availability and the active account.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// listView is satisfied by every application list view.
type listView[T any] interface {
	Load(ctx context.Context, force bool) error
	LoadMore(ctx context.Context) error
	Items() *application.Collection[T]
}

// ListPullRequests returns the pull requests of a repository.
func (h *Handler) ListPullRequests(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.views.PullRequests(application.PullRequestQuery{Repo: repo, State: r.URL.Query().Get("state")})
	if err != nil {
		h.writeViewError(w, err)
		return
	}

	serveList[model.PullRequest](h, w, r, view, toPullRequestResponse)
}

// ListIssues returns the issues of a repository.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	repo, ok := repoFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.views.Issues(application.IssueQuery{Repo: repo, State: r.URL.Query().Get("state")})
	if err != nil {
		h.writeViewError(w, err)
		return
	}

	serveList[model.Issue](h, w, r, view, toIssueResponse)
}

// ListGists returns gists of a user (?user=), the starred gists
// (?starred=1), public gists (?public=1) or the authenticated user's gists.
func (h *Handler) ListGists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := application.UserGists(q.Get("user"))
	switch {
	case q.Get("starred") == "1":
		query = application.StarredGists()
	case q.Get("public") == "1":
		query = application.PublicGists()
	}

	view, err := h.views.Gists(query)
	if err != nil {
		h.writeViewError(w, err)
		return
	}

	serveList[model.Gist](h, w, r, view, toGistResponse)
}

// serveList loads view and writes its snapshot. ?refresh=1 bypasses the HTTP
// cache; ?more=1 appends the next page to a list that has loaded before.
// A failed fetch is reported in the body when earlier data exists and as
// 502 otherwise.
func serveList[T, R any](h *Handler, w http.ResponseWriter, r *http.Request, view listView[T], convert func(T) R) {
	q := r.URL.Query()

	var err error
	if q.Get("more") == "1" && view.Items().Snapshot().Epoch > 0 {
		err = view.LoadMore(r.Context())
	} else {
		err = view.Load(r.Context(), isRefresh(r))
	}
	if errors.Is(err, application.ErrSuperseded) {
		err = nil
	}

	snap := view.Items().Snapshot()
	if err != nil && snap.Epoch == 0 {
		h.logger.Error("list load failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := ListResponse[R]{
		Items:     make([]R, 0, len(snap.Items)),
		LoadState: snap.State.String(),
		HasMore:   snap.HasMore,
	}
	for _, item := range snap.Items {
		resp.Items = append(resp.Items, convert(item))
	}
	if err != nil {
		resp.Error = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPullRequest returns the aggregated detail of a pull request.
func (h *Handler) GetPullRequest(w http.ResponseWriter, r *http.Request) {
	view, ok := h.pullRequestView(w, r)
	if !ok {
		return
	}

	err := view.Load(r.Context(), isRefresh(r))
	if errors.Is(err, application.ErrSuperseded) {
		err = nil
	}

	h.writeDetail(w, view, err)
}

// AddComment posts a comment on a pull request.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, ok := h.pullRequestView(w, r)
	if !ok {
		return
	}

	comment, err := view.AddComment(r.Context(), req.Body)
	if err != nil {
		h.writeModifyError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(*comment))
}

// Merge merges a pull request. The body is optional.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, ok := h.loadedPullRequestView(w, r)
	if !ok {
		return
	}

	if err := view.Merge(r.Context(), req.Message); err != nil {
		h.writeModifyError(w, err)
		return
	}

	h.writeDetail(w, view, nil)
}

// ToggleState closes an open pull request or reopens a closed one.
func (h *Handler) ToggleState(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadedPullRequestView(w, r)
	if !ok {
		return
	}

	if err := view.ToggleState(r.Context()); err != nil {
		h.writeModifyError(w, err)
		return
	}

	h.writeDetail(w, view, nil)
}

func (h *Handler) pullRequestView(w http.ResponseWriter, r *http.Request) (*application.PullRequestView, bool) {
	repo, ok := repoFromPath(w, r)
	if !ok {
		return nil, false
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "invalid pull request number")
		return nil, false
	}

	view, err := h.views.PullRequest(repo, number)
	if err != nil {
		h.writeViewError(w, err)
		return nil, false
	}
	return view, true
}

// loadedPullRequestView returns the view after making sure the pull request
// itself has been loaded at least once.
func (h *Handler) loadedPullRequestView(w http.ResponseWriter, r *http.Request) (*application.PullRequestView, bool) {
	view, ok := h.pullRequestView(w, r)
	if !ok {
		return nil, false
	}
	if view.PullRequest() != nil {
		return view, true
	}

	err := view.Load(r.Context(), false)
	if view.PullRequest() == nil {
		msg := "pull request not loaded"
		if err != nil {
			msg = err.Error()
		}
		writeError(w, http.StatusBadGateway, msg)
		return nil, false
	}
	return view, true
}

func (h *Handler) writeDetail(w http.ResponseWriter, view *application.PullRequestView, loadErr error) {
	pr := view.PullRequest()
	if pr == nil {
		msg := "pull request not loaded"
		if loadErr != nil {
			msg = loadErr.Error()
		}
		writeError(w, http.StatusBadGateway, msg)
		return
	}

	state, _ := view.State()
	resp := PullRequestDetailResponse{
		PullRequest: toPullRequestResponse(*pr),
		Feed:        toFeedResponse(view.Feed()),
		View:        view.Model(),
		LoadState:   state.String(),
	}
	if loadErr != nil {
		resp.Error = loadErr.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeViewError(w http.ResponseWriter, err error) {
	if errors.Is(err, application.ErrNoClient) {
		writeError(w, http.StatusServiceUnavailable, "no active account: add one via POST /api/v1/accounts")
		return
	}
	h.logger.Error("failed to open view", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeModifyError(w http.ResponseWriter, err error) {
	var writeErr *application.WriteError
	switch {
	case errors.Is(err, application.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &writeErr):
		writeError(w, http.StatusBadGateway, writeErr.Error())
	default:
		h.logger.Error("pull request modify failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// repoFromPath validates the {owner}/{repo} path values and writes a 400
// when they do not form a valid repository name.
func repoFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	repo := r.PathValue("owner") + "/" + r.PathValue("repo")
	if !model.IsValidRepoName(repo) {
		writeError(w, http.StatusBadRequest, "invalid repository name: expected owner/repo format")
		return "", false
	}
	return repo, true
}

func isRefresh(r *http.Request) bool {
	v := r.URL.Query().Get("refresh")
	return v == "1" || v == "true"
}
