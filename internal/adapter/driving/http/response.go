package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ListResponse wraps one page-accumulated list. LoadState and Error report
// the last fetch; Items keep the data of the last successful one.
type ListResponse[R any] struct {
	Items     []R    `json:"items"`
	LoadState string `json:"load_state"`
	Error     string `json:"error,omitempty"`
	HasMore   bool   `json:"has_more"`
}

// UserResponse is the JSON representation of a user reference.
type UserResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// PullRequestResponse is the JSON representation of a pull request.
type PullRequestResponse struct {
	Number       int          `json:"number"`
	Repository   string       `json:"repository"`
	Title        string       `json:"title"`
	Body         string       `json:"body,omitempty"`
	State        string       `json:"state"`
	Merged       bool         `json:"merged"`
	MergeStatus  string       `json:"merge_status"`
	Author       UserResponse `json:"author"`
	URL          string       `json:"url"`
	Branch       string       `json:"branch"`
	BaseBranch   string       `json:"base_branch"`
	Commits      int          `json:"commits"`
	ChangedFiles int          `json:"changed_files"`
	Additions    int          `json:"additions"`
	Deletions    int          `json:"deletions"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	MergedAt     string       `json:"merged_at,omitempty"`
}

// IssueResponse is the JSON representation of an issue.
type IssueResponse struct {
	Number    int           `json:"number"`
	Title     string        `json:"title"`
	State     string        `json:"state"`
	Author    UserResponse  `json:"author"`
	Assignee  *UserResponse `json:"assignee"`
	Milestone string        `json:"milestone,omitempty"`
	Labels    []string      `json:"labels"`
	Comments  int           `json:"comments"`
	URL       string        `json:"url"`
	UpdatedAt string        `json:"updated_at"`
}

// GistFileResponse is the JSON representation of a gist file.
type GistFileResponse struct {
	Filename string `json:"filename"`
	Language string `json:"language,omitempty"`
	Size     int    `json:"size"`
}

// GistResponse is the JSON representation of a gist.
type GistResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Owner       UserResponse       `json:"owner"`
	Public      bool               `json:"public"`
	Files       []GistFileResponse `json:"files"`
	Comments    int                `json:"comments"`
	URL         string             `json:"url"`
	UpdatedAt   string             `json:"updated_at"`
}

// FeedEntryResponse is one entry of the merged comment and event feed.
type FeedEntryResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
	Event     string `json:"event,omitempty"`
	Text      string `json:"text,omitempty"`
}

// CommentResponse is the JSON representation of a created comment.
type CommentResponse struct {
	ID        int64        `json:"id"`
	User      UserResponse `json:"user"`
	Body      string       `json:"body"`
	CreatedAt string       `json:"created_at"`
}

// PullRequestDetailResponse is the aggregated detail of a pull request.
// View is the display model shared with the HTML pages.
type PullRequestDetailResponse struct {
	PullRequest PullRequestResponse     `json:"pull_request"`
	Feed        []FeedEntryResponse     `json:"feed"`
	View        application.DetailModel `json:"view"`
	LoadState   string                  `json:"load_state"`
	Error       string                  `json:"error,omitempty"`
}

// AccountResponse is the JSON representation of a stored account. The
// token is never returned.
type AccountResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	APIURL    string `json:"api_url,omitempty"`
	IsActive  bool   `json:"is_active"`
	AddedAt   string `json:"added_at,omitempty"`
}

// PinnedRepoResponse is the JSON representation of a pinned repository.
type PinnedRepoResponse struct {
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	PinnedAt string `json:"pinned_at"`
}

// AddAccountRequest is the expected JSON body for POST /api/v1/accounts.
type AddAccountRequest struct {
	Token  string `json:"token"`
	APIURL string `json:"api_url"`
}

// AddPinnedRepoRequest is the expected JSON body for POST /api/v1/pinned.
type AddPinnedRepoRequest struct {
	FullName string `json:"full_name"`
}

// AddCommentRequest is the expected JSON body for posting a comment.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// MergeRequest is the optional JSON body for merging a pull request.
type MergeRequest struct {
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{Login: u.Login, AvatarURL: u.AvatarURL}
}

func toPullRequestResponse(pr model.PullRequest) PullRequestResponse {
	return PullRequestResponse{
		Number:       pr.Number,
		Repository:   pr.RepoFullName,
		Title:        pr.Title,
		Body:         pr.Body,
		State:        string(pr.State),
		Merged:       pr.Merged,
		MergeStatus:  string(pr.MergeStatus()),
		Author:       toUserResponse(pr.Author),
		URL:          pr.URL,
		Branch:       pr.Branch,
		BaseBranch:   pr.BaseBranch,
		Commits:      pr.Commits,
		ChangedFiles: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		CreatedAt:    formatTime(pr.CreatedAt),
		UpdatedAt:    formatTime(pr.UpdatedAt),
		MergedAt:     formatTime(pr.MergedAt),
	}
}

func toIssueResponse(issue model.Issue) IssueResponse {
	resp := IssueResponse{
		Number:    issue.Number,
		Title:     issue.Title,
		State:     string(issue.State),
		Author:    toUserResponse(issue.Author),
		Labels:    issue.LabelNames(),
		Comments:  issue.Comments,
		URL:       issue.URL,
		UpdatedAt: formatTime(issue.UpdatedAt),
	}
	if issue.Assignee != nil {
		a := toUserResponse(*issue.Assignee)
		resp.Assignee = &a
	}
	if issue.Milestone != nil {
		resp.Milestone = issue.Milestone.Title
	}
	return resp
}

func toGistResponse(g model.Gist) GistResponse {
	files := make([]GistFileResponse, 0, len(g.Files))
	for _, f := range g.Files {
		files = append(files, GistFileResponse{Filename: f.Filename, Language: f.Language, Size: f.Size})
	}
	return GistResponse{
		ID:          g.ID,
		Title:       g.Title(),
		Description: g.Description,
		Owner:       toUserResponse(g.Owner),
		Public:      g.Public,
		Files:       files,
		Comments:    g.Comments,
		URL:         g.URL,
		UpdatedAt:   formatTime(g.UpdatedAt),
	}
}

func toFeedResponse(feed []model.CommentEntry) []FeedEntryResponse {
	resp := make([]FeedEntryResponse, 0, len(feed))
	for _, e := range feed {
		entry := FeedEntryResponse{
			Login:     e.Login,
			AvatarURL: e.AvatarURL,
			CreatedAt: formatTime(e.CreatedAt),
			Body:      e.Body,
		}
		if e.IsEvent() {
			entry.Event = string(e.Annotation.Kind)
			entry.Text = e.Annotation.Text()
		}
		resp = append(resp, entry)
	}
	return resp
}

func toCommentResponse(c model.IssueComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		User:      toUserResponse(c.User),
		Body:      c.Body,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		Login:     a.Login,
		AvatarURL: a.AvatarURL,
		APIURL:    a.APIURL,
		IsActive:  a.IsActive,
		AddedAt:   formatTime(a.AddedAt),
	}
}

func toPinnedRepoResponse(p model.PinnedRepo) PinnedRepoResponse {
	return PinnedRepoResponse{
		FullName: p.FullName,
		Owner:    p.Owner,
		Name:     p.Name,
		PinnedAt: formatTime(p.PinnedAt),
	}
}
