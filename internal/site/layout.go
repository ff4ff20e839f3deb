package site

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/docskin/internal/content"
	"github.com/conneroisu/docskin/internal/docitem"
	"github.com/conneroisu/docskin/internal/frontmatter"
	"github.com/conneroisu/docskin/internal/sidebar"
)

// pageView is everything the layout needs for one page.
type pageView struct {
	siteTitle string
	page      *content.Page
	sidebar   []sidebar.Item
	category  sidebar.Renderer
	head      templ.Component
	onError   docitem.OnError
}

func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

// layout renders the full HTML document for a page.
func layout(v pageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := v.page.Title
		if v.siteTitle != "" {
			title += " | " + v.siteTitle
		}

		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<link rel="stylesheet" href="/`, ThemeCSSFile, `">`,
		); err != nil {
			return err
		}
		if v.head != nil {
			if err := v.head.Render(ctx, w); err != nil {
				return err
			}
		}
		if err := write(w, `</head><body><div class="main-wrapper docs-wrapper">`,
			`<aside class="theme-doc-sidebar-container">`); err != nil {
			return err
		}
		if err := sidebar.Menu(v.sidebar, v.category, v.page.Href).Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `</aside><main class="docMainContainer"><article>`); err != nil {
			return err
		}

		body := docitem.Wrap(
			markdownBody(v.page),
			docitem.Unavailable(v.page.Title),
			v.onError,
		)
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if err := rawMarkdown(v.page).Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `</article>`); err != nil {
			return err
		}
		if err := pagination(v.page).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</main></div></body></html>`)
	})
}

func markdownBody(page *content.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<div class="theme-doc-markdown markdown">`); err != nil {
			return err
		}
		if page.Body != nil {
			if err := page.Body.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</div>`)
	})
}

// rawMarkdown embeds the page source when the raw markdown plugin ran.
func rawMarkdown(page *content.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if page.Doc == nil {
			return nil
		}
		raw, ok := page.Doc.FrontMatter[frontmatter.RawMarkdownKey].(string)
		if !ok {
			return nil
		}
		return write(w, `<template id="doc-raw-markdown">`, templ.EscapeString(raw), `</template>`)
	})
}

func pagination(page *content.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if page.Prev == nil && page.Next == nil {
			return nil
		}
		if err := write(w, `<nav class="pagination-nav" aria-label="Docs pages">`); err != nil {
			return err
		}
		if page.Prev != nil {
			if err := write(w, `<a class="pagination-nav__link pagination-nav__link--prev" href="`,
				templ.EscapeString(page.Prev.Href), `">`, templ.EscapeString(page.Prev.Label), `</a>`); err != nil {
				return err
			}
		}
		if page.Next != nil {
			if err := write(w, `<a class="pagination-nav__link pagination-nav__link--next" href="`,
				templ.EscapeString(page.Next.Href), `">`, templ.EscapeString(page.Next.Label), `</a>`); err != nil {
				return err
			}
		}
		return write(w, `</nav>`)
	})
}
