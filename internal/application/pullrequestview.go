package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Sentinel errors returned by PullRequestView modify operations.
var (
	// ErrBusy is returned when a modify operation is started while another
	// one on the same view is still running.
	ErrBusy = errors.New("another change to this pull request is in progress")

	// ErrNotLoaded is returned by modify operations before the pull request
	// has been loaded.
	ErrNotLoaded = errors.New("pull request not loaded")

	// ErrEmptyComment is returned by AddComment for a blank body.
	ErrEmptyComment = errors.New("comment body is empty")
)

// WriteError reports a failed modify operation. It is shown to the user as
// an alert and never retried.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ViewDeps carries the collaborators shared by detail and list views.
// Zero fields select defaults: InlineDispatcher, no display, English
// strings, raw markdown and time.Now.
type ViewDeps struct {
	Dispatcher Dispatcher
	Display    DetailDisplay
	Localizer  Localizer
	Markdown   MarkdownRenderer
	Now        func() time.Time
	PerPage    int
}

func (d ViewDeps) withDefaults() ViewDeps {
	if d.Dispatcher == nil {
		d.Dispatcher = InlineDispatcher{}
	}
	if d.Display == nil {
		d.Display = nopDisplay{}
	}
	if d.Localizer == nil {
		d.Localizer = englishLocalizer{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// PullRequestView aggregates a pull request, its issue record, its comments
// and its timeline events into a DetailModel. The four parts load
// concurrently; the model is rebuilt and handed to the display after every
// change, once the pull request itself is present.
type PullRequestView struct {
	client driven.GitHubClient
	repo   string
	number int
	deps   ViewDeps

	pr       *Resource[model.PullRequest]
	issue    *Resource[model.Issue]
	comments *Collection[model.IssueComment]
	events   *Collection[model.TimelineEvent]

	loads loadGroup
	busy  atomic.Bool
}

// NewPullRequestView creates a view for pull request number of repo.
func NewPullRequestView(client driven.GitHubClient, repo string, number int, deps ViewDeps) *PullRequestView {
	deps = deps.withDefaults()

	v := &PullRequestView{
		client:   client,
		repo:     repo,
		number:   number,
		deps:     deps,
		pr:       NewResource[model.PullRequest](deps.Dispatcher),
		issue:    NewResource[model.Issue](deps.Dispatcher),
		comments: NewCollection[model.IssueComment](deps.Dispatcher, deps.PerPage),
		events:   NewCollection[model.TimelineEvent](deps.Dispatcher, deps.PerPage),
	}

	v.pr.Observe(func(ResourceSnapshot[model.PullRequest]) { v.render() })
	v.issue.Observe(func(ResourceSnapshot[model.Issue]) { v.render() })
	v.comments.Observe(func(CollectionSnapshot[model.IssueComment]) { v.render() })
	v.events.Observe(func(CollectionSnapshot[model.TimelineEvent]) { v.render() })

	return v
}

// Load fetches the pull request, its issue record, its comments and its
// events concurrently. Each part keeps its previous value when its fetch
// fails; the first failure is returned. Concurrent callers share one load.
func (v *PullRequestView) Load(ctx context.Context, force bool) error {
	return v.loads.do(ctx, force, v.load)
}

func (v *PullRequestView) load(ctx context.Context, force bool) error {
	start := time.Now()

	var g errgroup.Group
	g.Go(func() error {
		return v.pr.Load(ctx, v.name("pull"), force, func(ctx context.Context) (*model.PullRequest, error) {
			return v.client.FetchPullRequest(ctx, v.repo, v.number)
		})
	})
	g.Go(func() error {
		return v.issue.Load(ctx, v.name("issue"), force, func(ctx context.Context) (*model.Issue, error) {
			return v.client.FetchIssue(ctx, v.repo, v.number)
		})
	})
	g.Go(func() error {
		return v.comments.LoadAll(ctx, IssueCommentsRequest(v.client, v.repo, v.number), force)
	})
	g.Go(func() error {
		return v.events.LoadAll(ctx, IssueEventsRequest(v.client, v.repo, v.number), force)
	})

	err := g.Wait()

	slog.Info("pull request loaded",
		"repo", v.repo,
		"pr", v.number,
		"force", force,
		"duration", time.Since(start).Round(time.Millisecond),
		"error", err,
	)

	return err
}

// PullRequest returns the loaded pull request, or nil.
func (v *PullRequestView) PullRequest() *model.PullRequest {
	return v.pr.Snapshot().Value
}

// State returns the load state of the pull request itself along with its
// last fetch error.
func (v *PullRequestView) State() (model.LoadState, error) {
	snap := v.pr.Snapshot()
	return snap.State, snap.Err
}

// Feed returns the merged chronological feed of comments and events.
func (v *PullRequestView) Feed() []model.CommentEntry {
	return BuildFeed(v.comments.Snapshot().Items, v.events.Snapshot().Items, v.renderMarkdown)
}

// Busy reports whether a modify operation is running.
func (v *PullRequestView) Busy() bool {
	return v.busy.Load()
}

// AddComment posts a comment and appends it to the feed.
func (v *PullRequestView) AddComment(ctx context.Context, body string) (*model.IssueComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}

	var created *model.IssueComment
	err := v.modify(ctx, "comment", "Unable to comment", func(ctx context.Context) error {
		c, err := v.client.CreateIssueComment(ctx, v.repo, v.number, body)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.comments.Append(*created)
	return created, nil
}

// Merge merges the pull request and reloads it along with its events.
func (v *PullRequestView) Merge(ctx context.Context, commitMessage string) error {
	if v.PullRequest() == nil {
		return ErrNotLoaded
	}

	err := v.modify(ctx, "merge", "Unable to merge", func(ctx context.Context) error {
		return v.client.MergePullRequest(ctx, v.repo, v.number, commitMessage)
	})
	if err != nil {
		return err
	}

	v.refreshAfterWrite(ctx)
	return nil
}

// ToggleState closes an open pull request or reopens a closed one.
func (v *PullRequestView) ToggleState(ctx context.Context) error {
	pr := v.PullRequest()
	if pr == nil {
		return ErrNotLoaded
	}

	target := model.PRStateClosed
	if !pr.IsOpen() {
		target = model.PRStateOpen
	}

	err := v.modify(ctx, "set state", "Unable to update", func(ctx context.Context) error {
		updated, err := v.client.SetPullRequestState(ctx, v.repo, v.number, target)
		if err != nil {
			return err
		}
		v.pr.Set(updated)
		return nil
	})
	if err != nil {
		return err
	}

	v.refreshAfterWrite(ctx)
	return nil
}

// modify runs write under the busy flag. A failure is reported to the
// display as an alert titled alertKey and returned as a *WriteError.
func (v *PullRequestView) modify(ctx context.Context, op, alertKey string, write func(ctx context.Context) error) error {
	if !v.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	v.deps.Dispatcher.Dispatch(func() { v.deps.Display.SetBusy(true) })
	defer func() {
		v.busy.Store(false)
		v.deps.Dispatcher.Dispatch(func() { v.deps.Display.SetBusy(false) })
	}()

	if err := write(ctx); err != nil {
		slog.Error("pull request write failed", "repo", v.repo, "pr", v.number, "op", op, "error", err)
		title := v.deps.Localizer.T(alertKey)
		v.deps.Dispatcher.Dispatch(func() { v.deps.Display.ShowAlert(title, err.Error()) })
		return &WriteError{Op: op, Err: err}
	}

	slog.Info("pull request updated", "repo", v.repo, "pr", v.number, "op", op)
	return nil
}

// refreshAfterWrite reloads the view, forced, after a merge or state
// change. It joins a load already running rather than superseding it, and
// its failures stay in the load state of the parts.
func (v *PullRequestView) refreshAfterWrite(ctx context.Context) {
	if err := v.loads.do(ctx, true, v.load); err != nil && !errors.Is(err, ErrSuperseded) {
		slog.Warn("refresh after write failed", "repo", v.repo, "pr", v.number, "error", err)
	}
}

func (v *PullRequestView) render() {
	m := v.Model()
	if !m.Ready {
		return
	}
	v.deps.Display.ShowDetail(m)
}

// Model builds the current DetailModel. Ready is false until the pull
// request itself has loaded; no sections are built before that.
func (v *PullRequestView) Model() DetailModel {
	loc := v.deps.Localizer
	m := DetailModel{
		Title: loc.T("Pull Request #%d", v.number),
		Busy:  v.busy.Load(),
	}

	prSnap := v.pr.Snapshot()
	pr := prSnap.Value
	if pr == nil {
		return m
	}
	m.Ready = true

	issueSnap := v.issue.Snapshot()
	commentsSnap := v.comments.Snapshot()
	eventsSnap := v.events.Snapshot()
	now := v.deps.Now()

	m.Header = Header{
		Title:    pr.Title,
		Subtitle: loc.T("Updated %s", humanize.RelTime(pr.UpdatedAt, now, "ago", "from now")),
	}

	m.Sections = append(m.Sections, v.detailsSection(pr, issueSnap.Value))

	m.Sections = append(m.Sections, Section{Rows: []Row{
		{Kind: RowAction, Key: "commits", Title: loc.T("Commits"), Value: strconv.Itoa(pr.Commits), Action: ActionCommits, Enabled: true},
		{Kind: RowAction, Key: "files", Title: loc.T("Files"), Value: strconv.Itoa(pr.ChangedFiles), Action: ActionFiles, Enabled: true},
	}})

	if !pr.Merged {
		row := Row{Kind: RowAction, Key: "merge", Title: loc.T("Merge"), Action: ActionMerge, Enabled: true}
		if pr.MergeStatus() == model.MergeStatusNotMergeable {
			row = Row{Kind: RowValue, Key: "merge", Title: loc.T("Unable to merge!")}
		}
		m.Sections = append(m.Sections, Section{Rows: []Row{row}})
	}

	feed := BuildFeed(commentsSnap.Items, eventsSnap.Items, v.renderMarkdown)
	if len(feed) > 0 {
		m.Sections = append(m.Sections, Section{Rows: []Row{{
			Kind:  RowComments,
			Key:   "comments",
			Title: loc.T("Comments"),
			Value: feedPayload(feed, now),
			Feed:  feed,
		}}})
	}

	m.Sections = append(m.Sections, Section{Rows: []Row{
		{Kind: RowAction, Key: "add_comment", Title: loc.T("Add Comment"), Action: ActionAddComment, Enabled: true},
	}})

	toggle := loc.T("Close")
	if !pr.IsOpen() {
		toggle = loc.T("Open")
	}
	m.Menu = []MenuItem{
		{Action: ActionToggleState, Label: toggle},
		{Action: ActionAddComment, Label: loc.T("Comment")},
		{Action: ActionShowInGitHub, Label: loc.T("Show in GitHub"), URL: pr.URL},
	}
	m.MenuEnabled = !prSnap.State.IsLoading() &&
		!issueSnap.State.IsLoading() &&
		!commentsSnap.State.IsLoading() &&
		!eventsSnap.State.IsLoading()

	return m
}

func (v *PullRequestView) detailsSection(pr *model.PullRequest, issue *model.Issue) Section {
	loc := v.deps.Localizer
	var rows []Row

	if desc := v.renderMarkdown(pr.Body); desc != "" {
		rows = append(rows, Row{Kind: RowHTML, Key: "description", Title: loc.T("Description"), HTML: desc})
	}

	state := loc.T("Open")
	if !pr.IsOpen() {
		state = loc.T("Closed")
	}
	merged := loc.T("Not Merged")
	if pr.Merged {
		merged = loc.T("Merged")
	}
	rows = append(rows,
		Row{Kind: RowSplit, Key: "state", Left: state, Right: merged},
		Row{Kind: RowSplit, Key: "author", Left: pr.Author.Login, Right: pr.CreatedAt.Format("01/02/06")},
	)

	assignee := loc.T("Unassigned")
	milestone := loc.T("No Milestone")
	labels := loc.T("None")
	if issue != nil {
		if issue.Assignee != nil {
			assignee = issue.Assignee.Login
		}
		if issue.Milestone != nil {
			milestone = issue.Milestone.Title
		}
		if names := issue.LabelNames(); len(names) > 0 {
			labels = strings.Join(names, ", ")
		}
	}
	rows = append(rows,
		Row{Kind: RowValue, Key: "assignee", Title: loc.T("Assigned"), Value: assignee},
		Row{Kind: RowValue, Key: "milestone", Title: loc.T("Milestone"), Value: milestone},
		Row{Kind: RowValue, Key: "labels", Title: loc.T("Labels"), Value: labels},
	)

	return Section{Rows: rows}
}

func (v *PullRequestView) renderMarkdown(src string) string {
	if v.deps.Markdown == nil {
		return src
	}
	return v.deps.Markdown.HTML(src)
}

func (v *PullRequestView) name(part string) string {
	return fmt.Sprintf("%s#%d/%s", v.repo, v.number, part)
}

// feedPayload encodes the feed as the JSON array consumed by HTML displays.
func feedPayload(feed []model.CommentEntry, now time.Time) string {
	items := make([]FeedPayloadItem, 0, len(feed))
	for _, e := range feed {
		items = append(items, FeedPayloadItem{
			AvatarURL: e.AvatarURL,
			Login:     e.Login,
			CreatedAt: humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
			Body:      e.Body,
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		slog.Error("encoding comment feed", "error", err)
		return ""
	}
	return string(data)
}
