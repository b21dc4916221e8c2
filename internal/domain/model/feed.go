package model

import (
	"html"
	"time"
)

// Annotation is the human-readable rendering of a timeline event.
type Annotation struct {
	Kind  EventKind
	Label string // "Merged", "Closed", ...
	Style string // Label style class suffix: "info", "danger", "success", "default".
	Rest  string // Text following the label, e.g. "commit abcdef1".
}

// Text returns the plain-text form, e.g. "Merged commit abcdef1".
func (a Annotation) Text() string {
	return a.Label + " " + a.Rest
}

// HTML returns the markup shown inside the comment thread view.
func (a Annotation) HTML() string {
	return `<p><span class="label label-` + a.Style + `">` + html.EscapeString(a.Label) +
		`</span> ` + html.EscapeString(a.Rest) + `</p>`
}

// CommentEntry is one item of the merged feed. Entries built from comments
// carry the rendered comment body; entries built from events carry the
// annotation and its HTML as body.
type CommentEntry struct {
	Login      string
	AvatarURL  string
	CreatedAt  time.Time
	Body       string
	Annotation *Annotation // nil for comment entries.
}

// IsEvent returns true if the entry was synthesised from a timeline event.
func (e CommentEntry) IsEvent() bool {
	return e.Annotation != nil
}
