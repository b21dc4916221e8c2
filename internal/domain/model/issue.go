package model

import "time"

// Label is a repository label attached to an issue or pull request.
type Label struct {
	Name  string
	Color string
}

// Milestone is a repository milestone.
type Milestone struct {
	Number int
	Title  string
}

// Issue represents a GitHub issue. Every pull request also has an issue
// record carrying its assignee, milestone and labels.
type Issue struct {
	Number        int
	RepoFullName  string
	Title         string
	State         PRState
	Author        User
	Assignee      *User
	Milestone     *Milestone
	Labels        []Label
	Comments      int
	IsPullRequest bool
	URL           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LabelNames returns the names of the issue's labels in API order.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}
