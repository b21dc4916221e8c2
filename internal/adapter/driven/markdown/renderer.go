// Package markdown renders GitHub-flavoured markdown comment bodies to
// sanitized HTML or plain text.
package markdown

import (
	"bytes"
	"html"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultCacheSize is the number of rendered bodies kept per renderer.
const DefaultCacheSize = 512

// Renderer converts markdown to HTML and memoizes the results. Comment feeds
// are re-rendered on every state change, so most calls hit the cache.
// Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
	cache  *lru.Cache
}

// New creates a Renderer holding up to cacheSize rendered bodies.
// A non-positive size selects DefaultCacheSize.
func New(cacheSize int) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
		cache:  cache,
	}, nil
}

// HTML converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func (r *Renderer) HTML(src string) string {
	if src == "" {
		return ""
	}

	key := "h:" + src
	if v, ok := r.cache.Get(key); ok {
		return v.(string)
	}

	out := r.ugc.Sanitize(r.convert(src))
	r.cache.Add(key, out)
	return out
}

// Plain converts a markdown string to plain text with all markup removed.
func (r *Renderer) Plain(src string) string {
	if src == "" {
		return ""
	}

	key := "p:" + src
	if v, ok := r.cache.Get(key); ok {
		return v.(string)
	}

	out := strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(r.convert(src))))
	r.cache.Add(key, out)
	return out
}

// blockBreaks keeps block boundaries as line breaks once tags are stripped.
var blockBreaks = strings.NewReplacer("</p>", "</p>\n", "<br>", "\n", "<br/>", "\n", "</li>", "</li>\n", "</pre>", "</pre>\n")

// StripHTML reduces already rendered HTML, such as a feed entry body, to
// plain text. Block elements end in a line break.
func (r *Renderer) StripHTML(markup string) string {
	if markup == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(blockBreaks.Replace(markup))))
}

// Len returns the number of cached renderings.
func (r *Renderer) Len() int {
	return r.cache.Len()
}

func (r *Renderer) convert(src string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}
