// Package terminal renders detail and list views as colored text.
package terminal

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
)

var _ application.DetailDisplay = (*Display)(nil)

var (
	headingColor = color.New(color.Bold)
	mutedColor   = color.New(color.Faint)
	loginColor   = color.New(color.FgCyan, color.Bold)
	alertColor   = color.New(color.FgRed, color.Bold)
	titleColor   = color.New(color.FgYellow)

	labelColors = map[string]*color.Color{
		"danger":  color.New(color.FgRed, color.Bold),
		"success": color.New(color.FgGreen, color.Bold),
		"info":    color.New(color.FgMagenta, color.Bold),
		"default": color.New(color.FgWhite, color.Bold),
	}
)

// Display prints detail models to a writer. Identical consecutive models
// are printed once. Display is not safe for concurrent use; views reach it
// through a Dispatcher.
type Display struct {
	out  io.Writer
	text func(html string) string
	now  func() time.Time
	last string
}

// NewDisplay creates a Display writing to out. text reduces rendered HTML
// to plain text; nil leaves bodies as they are.
func NewDisplay(out io.Writer, text func(string) string) *Display {
	if text == nil {
		text = func(s string) string { return s }
	}
	return &Display{out: out, text: text, now: time.Now}
}

// ShowDetail prints m unless it is identical to the last printed model.
func (d *Display) ShowDetail(m application.DetailModel) {
	var buf bytes.Buffer
	d.writeDetail(&buf, m)

	rendered := buf.String()
	if rendered == d.last {
		return
	}
	d.last = rendered
	_, _ = io.WriteString(d.out, rendered)
}

// SetBusy prints a progress marker when a change starts.
func (d *Display) SetBusy(busy bool) {
	if busy {
		mutedColor.Fprintln(d.out, "working...")
	}
}

// ShowAlert prints a failed change.
func (d *Display) ShowAlert(title, message string) {
	alertColor.Fprintf(d.out, "%s: ", title)
	fmt.Fprintln(d.out, message)
}

func (d *Display) writeDetail(w io.Writer, m application.DetailModel) {
	mutedColor.Fprintln(w, m.Title)
	headingColor.Fprintln(w, m.Header.Title)
	mutedColor.Fprintln(w, m.Header.Subtitle)

	for _, s := range m.Sections {
		fmt.Fprintln(w)
		for _, r := range s.Rows {
			d.writeRow(w, r)
		}
	}

	if len(m.Menu) > 0 {
		labels := make([]string, 0, len(m.Menu))
		for _, item := range m.Menu {
			labels = append(labels, item.Label)
		}
		fmt.Fprintln(w)
		mutedColor.Fprintf(w, "[%s]\n", strings.Join(labels, "] ["))
	}
}

func (d *Display) writeRow(w io.Writer, r application.Row) {
	switch r.Kind {
	case application.RowHTML:
		titleColor.Fprintln(w, r.Title)
		fmt.Fprintln(w, indent(d.text(r.HTML)))
	case application.RowSplit:
		fmt.Fprintf(w, "%-30s %s\n", r.Left, r.Right)
	case application.RowValue, application.RowAction:
		if r.Value == "" {
			titleColor.Fprintln(w, r.Title)
			return
		}
		titleColor.Fprintf(w, "%-16s", r.Title)
		fmt.Fprintf(w, " %s\n", r.Value)
	case application.RowComments:
		titleColor.Fprintln(w, r.Title)
		for _, e := range r.Feed {
			d.writeEntry(w, e)
		}
	}
}

func (d *Display) writeEntry(w io.Writer, e model.CommentEntry) {
	loginColor.Fprint(w, "  "+e.Login)
	mutedColor.Fprintf(w, " %s\n", humanize.RelTime(e.CreatedAt, d.now(), "ago", "from now"))

	if e.IsEvent() {
		c, ok := labelColors[e.Annotation.Style]
		if !ok {
			c = labelColors["default"]
		}
		fmt.Fprint(w, "    ")
		c.Fprint(w, e.Annotation.Label)
		fmt.Fprintf(w, " %s\n", e.Annotation.Rest)
		return
	}

	fmt.Fprintln(w, indent(d.text(e.Body)))
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
