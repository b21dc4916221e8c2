package application

import (
	"sort"
	"unicode/utf8"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// shortCommitLen is the length commit ids are abbreviated to in the feed.
const shortCommitLen = 7

// BuildFeed merges comments and timeline events into one list ordered by
// creation time. Comment bodies are passed through render; events become
// annotated entries, and events with no annotation are dropped. Entries with
// equal timestamps keep comments before events, each in input order.
func BuildFeed(comments []model.IssueComment, events []model.TimelineEvent, render func(string) string) []model.CommentEntry {
	feed := make([]model.CommentEntry, 0, len(comments)+len(events))

	for _, c := range comments {
		body := c.Body
		if render != nil {
			body = render(body)
		}
		feed = append(feed, model.CommentEntry{
			Login:     c.User.Login,
			AvatarURL: c.User.AvatarURL,
			CreatedAt: c.CreatedAt,
			Body:      body,
		})
	}

	for _, ev := range events {
		if !ev.Kind.IsRenderable() {
			continue
		}
		annotation, _ := AnnotateEvent(ev)
		feed = append(feed, model.CommentEntry{
			Login:      ev.Actor.Login,
			AvatarURL:  ev.Actor.AvatarURL,
			CreatedAt:  ev.CreatedAt,
			Body:       annotation.HTML(),
			Annotation: &annotation,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.Before(feed[j].CreatedAt)
	})

	return feed
}

// AnnotateEvent returns the annotation shown for ev, or false when the event
// kind is not shown in the feed.
func AnnotateEvent(ev model.TimelineEvent) (model.Annotation, bool) {
	switch ev.Kind {
	case model.EventClosed:
		return model.Annotation{Kind: ev.Kind, Label: "Closed", Style: "danger", Rest: "this pull request."}, true
	case model.EventReopened:
		return model.Annotation{Kind: ev.Kind, Label: "Reopened", Style: "success", Rest: "this pull request."}, true
	case model.EventMerged:
		return model.Annotation{Kind: ev.Kind, Label: "Merged", Style: "info", Rest: "commit " + abbreviateCommit(ev.CommitID)}, true
	case model.EventReferenced:
		return model.Annotation{Kind: ev.Kind, Label: "Referenced", Style: "default", Rest: "commit " + abbreviateCommit(ev.CommitID)}, true
	default:
		return model.Annotation{}, false
	}
}

// abbreviateCommit shortens a commit id to its first seven characters.
// Shorter ids are used as is; a missing id reads "Unknown".
func abbreviateCommit(id string) string {
	if id == "" {
		return "Unknown"
	}
	if utf8.RuneCountInString(id) <= shortCommitLen {
		return id
	}
	return string([]rune(id)[:shortCommitLen])
}
