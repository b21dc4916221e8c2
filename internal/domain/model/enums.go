package model

// PRState represents the open/closed state of a pull request or issue as
// reported by the API.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)

// MergeStatus represents the merge status of a pull request.
type MergeStatus string

const (
	MergeStatusUnknown      MergeStatus = "unknown"       // GitHub has not computed mergeability yet.
	MergeStatusMergeable    MergeStatus = "mergeable"     // No conflicts with the base branch.
	MergeStatusNotMergeable MergeStatus = "not_mergeable" // Conflicts or blocked.
	MergeStatusMerged       MergeStatus = "merged"        // Already merged.
)

// EventKind is the kind of a timeline event on a pull request or issue.
type EventKind string

const (
	EventClosed     EventKind = "closed"
	EventReopened   EventKind = "reopened"
	EventMerged     EventKind = "merged"
	EventReferenced EventKind = "referenced"
)

// IsRenderable reports whether the kind maps to a feed annotation. Every
// other kind the API reports (assigned, labeled, head_ref_deleted, ...) is
// dropped from the merged feed.
func (k EventKind) IsRenderable() bool {
	switch k {
	case EventClosed, EventReopened, EventMerged, EventReferenced:
		return true
	default:
		return false
	}
}
