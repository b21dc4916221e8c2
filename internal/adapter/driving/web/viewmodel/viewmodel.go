// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from application and domain types.
package viewmodel

// PinnedRepoViewModel is one entry of the index page.
type PinnedRepoViewModel struct {
	FullName  string
	PullsPath string
	PinnedAgo string
}

// IndexViewModel holds the data of the index page.
type IndexViewModel struct {
	Heading   string
	Account   string
	Repos     []PinnedRepoViewModel
	CSRFToken string
	Alert     string
}

// RowViewModel is one line of a detail section.
type RowViewModel struct {
	Kind    string // html, split, value, action, comments
	Key     string
	Title   string
	Value   string
	Left    string
	Right   string
	HTML    string // Sanitized markup; rendered unescaped.
	Href    string // Link target for navigation rows.
	Form    string // Form action for rows that post.
	Enabled bool

	// Comments rows only.
	FeedJSON string
	Feed     []FeedEntryViewModel
}

// FeedEntryViewModel is the server-rendered fallback of one feed entry.
type FeedEntryViewModel struct {
	Login     string
	AvatarURL string
	CreatedAt string
	BodyHTML  string
}

// SectionViewModel groups rows.
type SectionViewModel struct {
	Rows []RowViewModel
}

// MenuItemViewModel is an entry of the action menu. Exactly one of Href
// and Form is set.
type MenuItemViewModel struct {
	Label string
	Href  string
	Form  string
}

// DetailPageViewModel holds the data of the pull request detail page.
type DetailPageViewModel struct {
	Title        string
	Heading      string
	Subheading   string
	Sections     []SectionViewModel
	Menu         []MenuItemViewModel
	MenuEnabled  bool
	Busy         bool
	CSRFToken    string
	Alert        string
	CommentLabel string
	LoadError    string
}
