package model

import (
	"strings"
	"time"
)

// PinnedRepo is a repository bookmarked on the index page.
type PinnedRepo struct {
	ID       int64
	FullName string
	Owner    string
	Name     string
	PinnedAt time.Time
}

// IsValidRepoName validates that name is in owner/repo format where each part
// contains only alphanumeric characters, hyphens, dots, or underscores.
func IsValidRepoName(name string) bool {
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" {
		return false
	}

	for _, ch := range owner + repo {
		if !isValidRepoChar(ch) {
			return false
		}
	}

	return true
}

// isValidRepoChar returns true if the rune is allowed in a repository owner or name.
func isValidRepoChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
