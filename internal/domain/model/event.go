package model

import "time"

// TimelineEvent is a non-comment activity record on a pull request or issue.
type TimelineEvent struct {
	ID        int64
	Actor     User
	Kind      EventKind
	CommitID  string // Empty when the event carries no commit.
	CreatedAt time.Time
}
