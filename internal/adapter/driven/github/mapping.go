package github

import (
	"sort"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest, repoFullName string) model.PullRequest {
	state := model.PRStateOpen
	if pr.GetState() == "closed" {
		state = model.PRStateClosed
	}

	var mergeable *bool
	if pr.Mergeable != nil {
		val := pr.GetMergeable()
		mergeable = &val
	}

	return model.PullRequest{
		ID:           pr.GetID(),
		Number:       pr.GetNumber(),
		RepoFullName: repoFullName,
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		State:        state,
		Merged:       pr.GetMerged() || !pr.GetMergedAt().IsZero(),
		Mergeable:    mergeable,
		Author:       mapUser(pr.GetUser()),
		URL:          pr.GetHTMLURL(),
		Branch:       pr.GetHead().GetRef(),
		BaseBranch:   pr.GetBase().GetRef(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Commits:      pr.GetCommits(),
		ChangedFiles: pr.GetChangedFiles(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		Comments:     pr.GetComments(),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
		MergedAt:     pr.GetMergedAt().Time,
	}
}

// mapIssue converts a go-github Issue to a domain model Issue.
func mapIssue(issue *gh.Issue, repoFullName string) model.Issue {
	state := model.PRStateOpen
	if issue.GetState() == "closed" {
		state = model.PRStateClosed
	}

	var assignee *model.User
	if issue.Assignee != nil {
		u := mapUser(issue.GetAssignee())
		assignee = &u
	}

	var milestone *model.Milestone
	if issue.Milestone != nil {
		milestone = &model.Milestone{
			Number: issue.GetMilestone().GetNumber(),
			Title:  issue.GetMilestone().GetTitle(),
		}
	}

	labels := make([]model.Label, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, model.Label{Name: l.GetName(), Color: l.GetColor()})
	}

	return model.Issue{
		Number:        issue.GetNumber(),
		RepoFullName:  repoFullName,
		Title:         issue.GetTitle(),
		State:         state,
		Author:        mapUser(issue.GetUser()),
		Assignee:      assignee,
		Milestone:     milestone,
		Labels:        labels,
		Comments:      issue.GetComments(),
		IsPullRequest: issue.IsPullRequest(),
		URL:           issue.GetHTMLURL(),
		CreatedAt:     issue.GetCreatedAt().Time,
		UpdatedAt:     issue.GetUpdatedAt().Time,
	}
}

// mapIssueComment converts a go-github IssueComment to a domain model IssueComment.
func mapIssueComment(c *gh.IssueComment) model.IssueComment {
	return model.IssueComment{
		ID:        c.GetID(),
		User:      mapUser(c.GetUser()),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}

// mapIssueEvent converts a go-github IssueEvent to a domain model TimelineEvent.
// The event kind is passed through verbatim; filtering unrenderable kinds is
// the feed builder's job.
func mapIssueEvent(ev *gh.IssueEvent) model.TimelineEvent {
	return model.TimelineEvent{
		ID:        ev.GetID(),
		Actor:     mapUser(ev.GetActor()),
		Kind:      model.EventKind(ev.GetEvent()),
		CommitID:  ev.GetCommitID(),
		CreatedAt: ev.GetCreatedAt().Time,
	}
}

// mapGists converts go-github Gists to domain model Gists.
func mapGists(gists []*gh.Gist) []model.Gist {
	items := make([]model.Gist, 0, len(gists))
	for _, g := range gists {
		items = append(items, mapGist(g))
	}
	return items
}

// mapGist converts a go-github Gist to a domain model Gist. Files come from a
// map in the API response, so they are sorted by name for stable output.
func mapGist(g *gh.Gist) model.Gist {
	files := make([]model.GistFile, 0, len(g.Files))
	for name, f := range g.Files {
		filename := f.GetFilename()
		if filename == "" {
			filename = string(name)
		}
		files = append(files, model.GistFile{
			Filename: filename,
			Language: f.GetLanguage(),
			Size:     f.GetSize(),
			RawURL:   f.GetRawURL(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Filename < files[j].Filename
	})

	return model.Gist{
		ID:          g.GetID(),
		Description: g.GetDescription(),
		Owner:       mapUser(g.GetOwner()),
		Public:      g.GetPublic(),
		Files:       files,
		Comments:    g.GetComments(),
		URL:         g.GetHTMLURL(),
		CreatedAt:   g.GetCreatedAt().Time,
		UpdatedAt:   g.GetUpdatedAt().Time,
	}
}

// mapUser converts a go-github User to a domain model User. A nil user maps
// to the zero value.
func mapUser(u *gh.User) model.User {
	return model.User{
		Login:     u.GetLogin(),
		AvatarURL: u.GetAvatarURL(),
	}
}
