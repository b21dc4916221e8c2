package model

import "time"

// PullRequest represents a single GitHub pull request shown in the detail view.
type PullRequest struct {
	ID           int64
	Number       int
	RepoFullName string
	Title        string
	Body         string
	State        PRState
	Merged       bool
	Mergeable    *bool // nil until GitHub has computed mergeability.
	Author       User
	URL          string
	Branch       string
	BaseBranch   string
	HeadSHA      string
	Commits      int
	ChangedFiles int
	Additions    int
	Deletions    int
	Comments     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MergedAt     time.Time // Zero if not merged.
}

// MergeStatus collapses the merged flag and GitHub's tri-state mergeable
// field into a single status.
func (pr PullRequest) MergeStatus() MergeStatus {
	if pr.Merged {
		return MergeStatusMerged
	}
	if pr.Mergeable == nil {
		return MergeStatusUnknown
	}
	if *pr.Mergeable {
		return MergeStatusMergeable
	}
	return MergeStatusNotMergeable
}

// IsOpen returns true if the pull request is open.
func (pr PullRequest) IsOpen() bool {
	return pr.State == PRStateOpen
}
