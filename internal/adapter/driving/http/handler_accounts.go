package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// ListAccounts returns the stored accounts without their tokens.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccounts(w) {
		return
	}

	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		h.writeAccountError(w, "failed to list accounts", "", err)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddAccount validates a token against the API and stores its account.
func (h *Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccounts(w) {
		return
	}

	var req AddAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Add(r.Context(), req.Token, strings.TrimSpace(req.APIURL))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTokenRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, driven.ErrEncryptionKeyNotSet):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			h.logger.Warn("failed to add account", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(*account))
}

// ActivateAccount makes an account the active one.
func (h *Handler) ActivateAccount(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccounts(w) {
		return
	}

	login := r.PathValue("login")
	if err := h.accounts.Activate(r.Context(), login); err != nil {
		h.writeAccountError(w, "failed to activate account", login, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveAccount deletes a stored account.
func (h *Handler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccounts(w) {
		return
	}

	login := r.PathValue("login")
	if err := h.accounts.Remove(r.Context(), login); err != nil {
		h.writeAccountError(w, "failed to remove account", login, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireAccounts(w http.ResponseWriter) bool {
	if h.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, driven.ErrEncryptionKeyNotSet.Error())
		return false
	}
	return true
}

func (h *Handler) writeAccountError(w http.ResponseWriter, msg, login string, err error) {
	switch {
	case errors.Is(err, driven.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error(msg, "login", login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListPinned returns all pinned repositories.
func (h *Handler) ListPinned(w http.ResponseWriter, r *http.Request) {
	repos, err := h.pins.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list pinned repos", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PinnedRepoResponse, 0, len(repos))
	for _, repo := range repos {
		resp = append(resp, toPinnedRepoResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddPinned pins a repository.
func (h *Handler) AddPinned(w http.ResponseWriter, r *http.Request) {
	var req AddPinnedRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.IsValidRepoName(req.FullName) {
		writeError(w, http.StatusBadRequest, "invalid repository name: expected owner/repo format")
		return
	}

	repo := NewPinnedRepo(req.FullName, time.Now())
	if err := h.pins.Add(r.Context(), repo); err != nil {
		if errors.Is(err, driven.ErrRepoAlreadyExists) {
			writeError(w, http.StatusConflict, "repository already pinned")
			return
		}
		h.logger.Error("failed to pin repo", "repo", req.FullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toPinnedRepoResponse(repo))
}

// RemovePinned unpins a repository.
func (h *Handler) RemovePinned(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	if err := h.pins.Remove(r.Context(), fullName); err != nil {
		if errors.Is(err, driven.ErrRepoNotFound) {
			writeError(w, http.StatusNotFound, "repository not pinned")
			return
		}
		h.logger.Error("failed to unpin repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NewPinnedRepo builds a PinnedRepo from a validated owner/repo name.
func NewPinnedRepo(fullName string, now time.Time) model.PinnedRepo {
	owner, name, _ := strings.Cut(fullName, "/")
	return model.PinnedRepo{
		FullName: fullName,
		Owner:    owner,
		Name:     name,
		PinnedAt: now.UTC(),
	}
}
