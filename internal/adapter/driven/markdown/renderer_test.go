package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(0)
	require.NoError(t, err)
	return r
}

func TestHTML_EmptyInput(t *testing.T) {
	assert.Equal(t, "", newTestRenderer(t).HTML(""))
}

func TestHTML_PlainText(t *testing.T) {
	result := newTestRenderer(t).HTML("hello world")
	assert.Contains(t, result, "hello world")
}

func TestHTML_Bold(t *testing.T) {
	result := newTestRenderer(t).HTML("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestHTML_InlineCode(t *testing.T) {
	result := newTestRenderer(t).HTML("use `fmt.Println`")
	assert.Contains(t, result, "<code>fmt.Println</code>")
}

func TestHTML_CodeBlock(t *testing.T) {
	input := "```go\nfmt.Println(\"hello\")\n```"
	result := newTestRenderer(t).HTML(input)
	assert.Contains(t, result, "<code")
	assert.Contains(t, result, "fmt.Println")
}

func TestHTML_Link(t *testing.T) {
	result := newTestRenderer(t).HTML("[click](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "click</a>")
}

func TestHTML_SanitizesScript(t *testing.T) {
	result := newTestRenderer(t).HTML(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestHTML_GFMStrikethrough(t *testing.T) {
	result := newTestRenderer(t).HTML("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}

func TestHTML_GFMTaskList(t *testing.T) {
	result := newTestRenderer(t).HTML("- [x] done\n- [ ] todo")
	assert.Contains(t, result, "<li>")
	assert.Contains(t, result, "done")
	assert.Contains(t, result, "todo")
}

func TestPlain_StripsMarkup(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t, "", r.Plain(""))
	assert.Equal(t, "bold and code", r.Plain("**bold** and `code`"))
	assert.Equal(t, "a < b & c", r.Plain("a < b & c"))
	assert.NotContains(t, r.Plain(`<script>alert("xss")</script>`), "<script>")
}

func TestRenderer_MemoizesPerForm(t *testing.T) {
	r := newTestRenderer(t)

	first := r.HTML("**x**")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, first, r.HTML("**x**"))
	assert.Equal(t, 1, r.Len())

	r.Plain("**x**")
	assert.Equal(t, 2, r.Len(), "plain and HTML forms are cached separately")
}

func TestRenderer_EvictsBeyondSize(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)

	r.HTML("one")
	r.HTML("two")
	r.HTML("three")
	assert.Equal(t, 2, r.Len())
}

func TestStripHTML(t *testing.T) {
	r, err := New(0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "paragraphs", input: "<p>one</p><p>two &amp; three</p>", want: "one\ntwo & three"},
		{name: "annotation", input: `<p><span class="label label-info">Merged</span> commit abcdef1</p>`, want: "Merged commit abcdef1"},
		{name: "list", input: "<ul><li>a</li><li>b</li></ul>", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.StripHTML(tt.input))
		})
	}
}
