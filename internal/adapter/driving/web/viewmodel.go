package web

import (
	"time"

	"github.com/dustin/go-humanize"

	vm "github.com/ericfisherdev/codehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// toPinnedRepoViewModels converts pinned repositories for the index page.
func toPinnedRepoViewModels(repos []model.PinnedRepo, now time.Time) []vm.PinnedRepoViewModel {
	out := make([]vm.PinnedRepoViewModel, 0, len(repos))
	for _, r := range repos {
		out = append(out, vm.PinnedRepoViewModel{
			FullName:  r.FullName,
			PullsPath: "https://github.com/" + r.FullName + "/pulls",
			PinnedAgo: humanize.RelTime(r.PinnedAt, now, "ago", "from now"),
		})
	}
	return out
}

// toDetailPageViewModel converts a detail display model into the page view
// model. basePath is the page's own path; forms post to its sub-paths.
func toDetailPageViewModel(m application.DetailModel, basePath, csrf string, loc application.Localizer) vm.DetailPageViewModel {
	page := vm.DetailPageViewModel{
		Title:        m.Title,
		Heading:      m.Header.Title,
		Subheading:   m.Header.Subtitle,
		MenuEnabled:  m.MenuEnabled && !m.Busy,
		Busy:         m.Busy,
		CSRFToken:    csrf,
		CommentLabel: loc.T("Comment"),
	}

	var githubURL string
	for _, item := range m.Menu {
		if item.Action == application.ActionShowInGitHub {
			githubURL = item.URL
		}
	}

	for _, s := range m.Sections {
		section := vm.SectionViewModel{Rows: make([]vm.RowViewModel, 0, len(s.Rows))}
		for _, r := range s.Rows {
			section.Rows = append(section.Rows, toRowViewModel(r, basePath, githubURL))
		}
		page.Sections = append(page.Sections, section)
	}

	for _, item := range m.Menu {
		mi := vm.MenuItemViewModel{Label: item.Label}
		switch item.Action {
		case application.ActionToggleState:
			mi.Form = basePath + "/state"
		case application.ActionAddComment:
			mi.Href = "#add-comment"
		default:
			mi.Href = item.URL
		}
		page.Menu = append(page.Menu, mi)
	}

	return page
}

func toRowViewModel(r application.Row, basePath, githubURL string) vm.RowViewModel {
	row := vm.RowViewModel{
		Kind:    string(r.Kind),
		Key:     r.Key,
		Title:   r.Title,
		Value:   r.Value,
		Left:    r.Left,
		Right:   r.Right,
		HTML:    r.HTML,
		Enabled: r.Enabled,
	}

	switch r.Action {
	case application.ActionCommits:
		row.Href = githubURL + "/commits"
	case application.ActionFiles:
		row.Href = githubURL + "/files"
	case application.ActionMerge:
		row.Form = basePath + "/merge"
	case application.ActionAddComment:
		row.Form = basePath + "/comments"
	}

	if r.Kind == application.RowComments {
		row.Value = ""
		row.FeedJSON = r.Value
		row.Feed = make([]vm.FeedEntryViewModel, 0, len(r.Feed))
		for _, e := range r.Feed {
			row.Feed = append(row.Feed, vm.FeedEntryViewModel{
				Login:     e.Login,
				AvatarURL: e.AvatarURL,
				CreatedAt: e.CreatedAt.Format("Jan 2, 2006 15:04"),
				BodyHTML:  e.Body,
			})
		}
	}

	return row
}
