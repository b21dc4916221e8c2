package application

import (
	"fmt"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// RowKind tells a display how to draw a Row.
type RowKind string

const (
	RowHTML     RowKind = "html"     // Sanitized HTML block.
	RowSplit    RowKind = "split"    // Two values side by side.
	RowValue    RowKind = "value"    // Title with a trailing value.
	RowAction   RowKind = "action"   // Tappable entry bound to an Action.
	RowComments RowKind = "comments" // The merged feed.
)

// Action identifies something a user can trigger from a detail view.
type Action string

const (
	ActionCommits      Action = "commits"
	ActionFiles        Action = "files"
	ActionMerge        Action = "merge"
	ActionAddComment   Action = "add_comment"
	ActionToggleState  Action = "toggle_state"
	ActionShowInGitHub Action = "show_in_github"
)

// Row is one line of a detail view section.
type Row struct {
	Kind    RowKind `json:"kind"`
	Key     string  `json:"key"`
	Title   string  `json:"title,omitempty"`
	Value   string  `json:"value,omitempty"`
	Left    string  `json:"left,omitempty"`
	Right   string  `json:"right,omitempty"`
	HTML    string  `json:"html,omitempty"`
	Action  Action  `json:"action,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`

	// Feed is set on RowComments rows. Value then carries the JSON payload.
	Feed []model.CommentEntry `json:"-"`
}

// Section is a group of rows.
type Section struct {
	Rows []Row `json:"rows"`
}

// Header is the title block at the top of a detail view.
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// MenuItem is an entry of the detail view's action menu.
type MenuItem struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
	URL    string `json:"url,omitempty"`
}

// DetailModel is the display-independent description of a detail view,
// rebuilt from scratch on every change.
type DetailModel struct {
	Title       string     `json:"title"`
	Ready       bool       `json:"ready"`
	Header      Header     `json:"header"`
	Sections    []Section  `json:"sections"`
	Menu        []MenuItem `json:"menu"`
	MenuEnabled bool       `json:"menu_enabled"`
	Busy        bool       `json:"busy"`
}

// Row returns the first row with the given key.
func (m DetailModel) Row(key string) (Row, bool) {
	for _, s := range m.Sections {
		for _, r := range s.Rows {
			if r.Key == key {
				return r, true
			}
		}
	}
	return Row{}, false
}

// FeedPayloadItem is one element of the JSON comments payload handed to
// HTML displays.
type FeedPayloadItem struct {
	AvatarURL string `json:"avatarUrl"`
	Login     string `json:"login"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
}

// DetailDisplay receives display updates. All calls arrive through the
// view's Dispatcher.
type DetailDisplay interface {
	ShowDetail(m DetailModel)
	SetBusy(busy bool)
	ShowAlert(title, message string)
}

// Localizer resolves display strings.
type Localizer interface {
	T(key string, args ...any) string
}

// MarkdownRenderer converts markdown to sanitized HTML.
type MarkdownRenderer interface {
	HTML(src string) string
}

type nopDisplay struct{}

func (nopDisplay) ShowDetail(DetailModel) {}
func (nopDisplay) SetBusy(bool) {}
func (nopDisplay) ShowAlert(string, string) {}

type englishLocalizer struct{}

func (englishLocalizer) T(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}
