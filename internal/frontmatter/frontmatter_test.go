package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docerrors "github.com/conneroisu/docskin/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		frontMatter map[string]any
		body        string
	}{
		{
			name:        "no front matter",
			input:       "# Title\n\nText\n",
			frontMatter: map[string]any{},
			body:        "# Title\n\nText\n",
		},
		{
			name:        "front matter and body",
			input:       "---\ntitle: Intro\nsidebar_position: 2\n---\n# Intro\n",
			frontMatter: map[string]any{"title": "Intro", "sidebar_position": 2},
			body:        "# Intro\n",
		},
		{
			name:        "empty block",
			input:       "---\n---\nbody",
			frontMatter: map[string]any{},
			body:        "body",
		},
		{
			name:        "crlf line endings",
			input:       "---\r\ntitle: Win\r\n---\r\nbody\r\n",
			frontMatter: map[string]any{"title": "Win"},
			body:        "body\r\n",
		},
		{
			name:        "closing delimiter at end of file",
			input:       "---\ntitle: Only\n---",
			frontMatter: map[string]any{"title": "Only"},
			body:        "",
		},
		{
			name:        "horizontal rule later in body is not front matter",
			input:       "Intro\n---\nmore",
			frontMatter: map[string]any{},
			body:        "Intro\n---\nmore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("docs/a.md", []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.frontMatter, doc.FrontMatter)
			assert.Equal(t, tt.body, doc.Body)
			assert.Equal(t, tt.input, doc.Raw)
			assert.Equal(t, "docs/a.md", doc.Path)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("unterminated", func(t *testing.T) {
		_, err := Parse("docs/bad.md", []byte("---\ntitle: x\n"))
		var e *docerrors.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, "FRONTMATTER_UNTERMINATED", e.Code)
		assert.Equal(t, "docs/bad.md", e.Path)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Parse("docs/bad.md", []byte("---\ntitle: [unclosed\n---\n"))
		require.Error(t, err)
		assert.True(t, docerrors.IsType(err, docerrors.ErrorTypeParse))
	})
}

func TestRawMarkdown(t *testing.T) {
	input := "---\ntitle: Intro\n---\n# Intro\n\nHello.\n"
	doc, err := Parse("intro.md", []byte(input))
	require.NoError(t, err)

	require.NoError(t, doc.Apply(RawMarkdown))
	assert.Equal(t, input, doc.FrontMatter[RawMarkdownKey])
	assert.Equal(t, "Intro", doc.String("title"))
}

func TestRawMarkdownWithoutFrontMatterMap(t *testing.T) {
	doc := &Document{Path: "plain.md", Body: "Hello.\n", Raw: "Hello.\n"}

	require.NoError(t, RawMarkdown(doc))
	assert.Equal(t, "Hello.\n", doc.FrontMatter[RawMarkdownKey])
}

func TestApplyStopsAtFirstError(t *testing.T) {
	doc, err := Parse("x.md", []byte("body"))
	require.NoError(t, err)

	calls := 0
	failing := func(*Document) error { calls++; return errors.New("nope") }
	counting := func(*Document) error { calls++; return nil }

	err = doc.Apply(counting, failing, counting)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorContains(t, err, "nope")
}

func TestAccessors(t *testing.T) {
	doc := &Document{FrontMatter: map[string]any{"n": 3, "f": 2.0, "s": "x"}}

	n, ok := doc.Int("n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	f, ok := doc.Int("f")
	assert.True(t, ok)
	assert.Equal(t, 2, f)

	_, ok = doc.Int("s")
	assert.False(t, ok)

	doc.FrontMatter["frac"] = 2.5
	pos, ok := doc.Float("frac")
	assert.True(t, ok)
	assert.Equal(t, 2.5, pos)

	pos, ok = doc.Float("n")
	assert.True(t, ok)
	assert.Equal(t, 3.0, pos)

	_, ok = doc.Float("s")
	assert.False(t, ok)
	assert.Equal(t, "", doc.String("n"))
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Parse("x.md", []byte("---\ntitle: Intro\n---\nBody\n"))
	require.NoError(t, err)

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Intro\n---\nBody\n", string(out))

	again, err := Parse("x.md", out)
	require.NoError(t, err)
	assert.Equal(t, doc.FrontMatter, again.FrontMatter)
	assert.Equal(t, doc.Body, again.Body)

	bare := &Document{Body: "plain"}
	out, err = bare.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}
