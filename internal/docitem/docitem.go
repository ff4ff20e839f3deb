// Package docitem wraps the body of a doc page so a failure while rendering
// it degrades to a fallback instead of aborting the whole page.
package docitem

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// OnError is called with the error that caused a fallback. It may be nil.
type OnError func(ctx context.Context, err error)

// Wrap renders content into a buffer first. If content returns an error or
// panics, fallback is written instead and onError is told why. Nothing from
// a failed render reaches w.
func Wrap(content, fallback templ.Component, onError OnError) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		err := renderSafely(ctx, content, &buf)
		if err == nil {
			_, err = buf.WriteTo(w)
			return err
		}

		if onError != nil {
			onError(ctx, err)
		}
		if fallback == nil {
			return nil
		}
		return fallback.Render(ctx, w)
	})
}

func renderSafely(ctx context.Context, c templ.Component, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("doc item render panicked: %v", r)
		}
	}()
	if c == nil {
		return nil
	}
	return c.Render(ctx, w)
}

// Unavailable is the default fallback body.
func Unavailable(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="theme-doc-markdown markdown"><p class="alert alert--warning">`+
			templ.EscapeString(title)+` could not be rendered.</p></div>`)
		return err
	})
}
