package docitem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		content  templ.Component
		expected string
		failed   bool
	}{
		{
			name:     "success passes through",
			content:  text("<article>ok</article>"),
			expected: "<article>ok</article>",
		},
		{
			name: "error discards partial output",
			content: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, _ = io.WriteString(w, "<article>half")
				return errors.New("template failed")
			}),
			expected: "fallback",
			failed:   true,
		},
		{
			name: "panic is recovered",
			content: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				panic("nil map")
			}),
			expected: "fallback",
			failed:   true,
		},
		{
			name:     "nil content renders nothing",
			content:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reported error
			c := Wrap(tt.content, text("fallback"), func(ctx context.Context, err error) {
				reported = err
			})

			var buf bytes.Buffer
			require.NoError(t, c.Render(context.Background(), &buf))
			assert.Equal(t, tt.expected, buf.String())
			assert.Equal(t, tt.failed, reported != nil)
		})
	}
}

func TestWrapPanicMessage(t *testing.T) {
	var reported error
	c := Wrap(templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		panic("boom")
	}), nil, func(ctx context.Context, err error) { reported = err })

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
	assert.EqualError(t, reported, "doc item render panicked: boom")
}

func TestUnavailable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Unavailable("A & B").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "A &amp; B could not be rendered.")
}
