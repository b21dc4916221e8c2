package model

import "time"

// GistFile is a single file within a gist.
type GistFile struct {
	Filename string
	Language string
	Size     int
	RawURL   string
}

// Gist represents a GitHub gist.
type Gist struct {
	ID          string
	Description string
	Owner       User
	Public      bool
	Files       []GistFile // Sorted by filename.
	Comments    int
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Title returns the description, falling back to the first filename for
// gists created without one.
func (g Gist) Title() string {
	if g.Description != "" {
		return g.Description
	}
	if len(g.Files) > 0 {
		return g.Files[0].Filename
	}
	return g.ID
}
