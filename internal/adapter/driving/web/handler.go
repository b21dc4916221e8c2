// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/codehub/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/codehub/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/codehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	views    *application.ViewRegistry
	pins     driven.PinnedRepoStore
	provider *application.GitHubClientProvider
	loc      application.Localizer
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	views *application.ViewRegistry,
	pins driven.PinnedRepoStore,
	provider *application.GitHubClientProvider,
	loc application.Localizer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		views:    views,
		pins:     pins,
		provider: provider,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Index renders the pinned repositories.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	repos, err := h.pins.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list pinned repos", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	page := vm.IndexViewModel{
		Heading:   h.loc.T("Pinned"),
		Account:   h.provider.Login(),
		Repos:     toPinnedRepoViewModels(repos, h.now()),
		CSRFToken: csrfToken(w, r),
		Alert:     takeAlert(w, r),
	}
	h.render(w, r, http.StatusOK, page.Heading, pages.Index(page))
}

// PullRequest renders the detail page of a pull request. ?refresh=1
// bypasses the HTTP cache.
func (h *Handler) PullRequest(w http.ResponseWriter, r *http.Request) {
	view, basePath, ok := h.pullRequestView(w, r)
	if !ok {
		return
	}

	err := view.Load(r.Context(), r.URL.Query().Get("refresh") == "1")
	if errors.Is(err, application.ErrSuperseded) {
		err = nil
	}

	m := view.Model()
	if !m.Ready {
		msg := "pull request not loaded"
		if err != nil {
			msg = err.Error()
		}
		h.renderError(w, r, http.StatusBadGateway, msg)
		return
	}

	page := toDetailPageViewModel(m, basePath, csrfToken(w, r), h.loc)
	page.Alert = takeAlert(w, r)
	if err != nil {
		page.LoadError = err.Error()
	}

	h.render(w, r, http.StatusOK, page.Title, pages.PullRequest(page))
}

// AddComment posts the form's comment and redirects back to the page.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, "Unable to comment", false, func(view *application.PullRequestView) error {
		_, err := view.AddComment(r.Context(), r.FormValue("body"))
		return err
	})
}

// Merge merges the pull request and redirects back to the page.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, "Unable to merge", true, func(view *application.PullRequestView) error {
		return view.Merge(r.Context(), r.FormValue("message"))
	})
}

// ToggleState closes or reopens the pull request and redirects back.
func (h *Handler) ToggleState(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, "Unable to update", true, func(view *application.PullRequestView) error {
		return view.ToggleState(r.Context())
	})
}

// modify validates the CSRF token, runs op and redirects back to the detail
// page. A failure is carried to the page in the alert cookie.
func (h *Handler) modify(w http.ResponseWriter, r *http.Request, alertKey string, needsLoad bool, op func(*application.PullRequestView) error) {
	if !validateCSRF(r) {
		h.renderError(w, r, http.StatusForbidden, "invalid CSRF token")
		return
	}

	view, basePath, ok := h.pullRequestView(w, r)
	if !ok {
		return
	}

	if needsLoad && view.PullRequest() == nil {
		err := view.Load(r.Context(), false)
		if view.PullRequest() == nil {
			if err == nil {
				err = errors.New("pull request not loaded")
			}
			h.logger.Warn("pull request load failed", "path", basePath, "error", err)
			setAlert(w, basePath, h.loc.T(alertKey)+": "+err.Error())
			http.Redirect(w, r, basePath, http.StatusSeeOther)
			return
		}
	}

	if err := op(view); err != nil {
		h.logger.Warn("pull request change failed", "path", basePath, "error", err)
		msg := err.Error()
		var writeErr *application.WriteError
		if errors.As(err, &writeErr) {
			msg = h.loc.T(alertKey) + ": " + writeErr.Err.Error()
		}
		setAlert(w, basePath, msg)
		http.Redirect(w, r, basePath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

func (h *Handler) pullRequestView(w http.ResponseWriter, r *http.Request) (*application.PullRequestView, string, bool) {
	repo := r.PathValue("owner") + "/" + r.PathValue("repo")
	if !model.IsValidRepoName(repo) {
		h.renderError(w, r, http.StatusBadRequest, "invalid repository name")
		return nil, "", false
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		h.renderError(w, r, http.StatusBadRequest, "invalid pull request number")
		return nil, "", false
	}

	view, err := h.views.PullRequest(repo, number)
	if err != nil {
		if errors.Is(err, application.ErrNoClient) {
			h.renderError(w, r, http.StatusServiceUnavailable, "no active account")
			return nil, "", false
		}
		h.logger.Error("failed to open pull request view", "repo", repo, "pr", number, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, "", false
	}

	return view, "/app/repos/" + repo + "/pulls/" + strconv.Itoa(number), true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, http.StatusText(status), pages.Error(http.StatusText(status), msg))
}
