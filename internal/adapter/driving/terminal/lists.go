package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// PrintGists prints one line per gist followed by its files.
func PrintGists(w io.Writer, gists []model.Gist, now time.Time) {
	if len(gists) == 0 {
		mutedColor.Fprintln(w, "no gists")
		return
	}
	for _, g := range gists {
		visibility := "secret"
		if g.Public {
			visibility = "public"
		}
		headingColor.Fprint(w, g.Title())
		mutedColor.Fprintf(w, "  %s · %s · %s\n", g.Owner.Login, visibility, humanize.RelTime(g.UpdatedAt, now, "ago", "from now"))

		names := make([]string, 0, len(g.Files))
		for _, f := range g.Files {
			names = append(names, f.Filename)
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(names, ", "))
	}
}

// PrintPullRequests prints one line per pull request.
func PrintPullRequests(w io.Writer, prs []model.PullRequest, now time.Time) {
	if len(prs) == 0 {
		mutedColor.Fprintln(w, "no pull requests")
		return
	}
	for _, pr := range prs {
		loginColor.Fprintf(w, "#%-5d", pr.Number)
		fmt.Fprintf(w, " %s", pr.Title)
		mutedColor.Fprintf(w, "  %s · %s\n", pr.Author.Login, humanize.RelTime(pr.UpdatedAt, now, "ago", "from now"))
	}
}

// PrintIssues prints one line per issue with its labels.
func PrintIssues(w io.Writer, issues []model.Issue, now time.Time) {
	if len(issues) == 0 {
		mutedColor.Fprintln(w, "no issues")
		return
	}
	for _, is := range issues {
		loginColor.Fprintf(w, "#%-5d", is.Number)
		fmt.Fprintf(w, " %s", is.Title)
		for _, l := range is.Labels {
			titleColor.Fprintf(w, " [%s]", l.Name)
		}
		mutedColor.Fprintf(w, "  %s · %s\n", is.Author.Login, humanize.RelTime(is.UpdatedAt, now, "ago", "from now"))
	}
}
