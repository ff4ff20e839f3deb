package sidebar

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Renderer renders one category item with extra attributes.
type Renderer interface {
	Render(item Item, attrs Attrs) templ.Component
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(item Item, attrs Attrs) templ.Component

// Render implements Renderer.
func (f RendererFunc) Render(item Item, attrs Attrs) templ.Component {
	return f(item, attrs)
}

type menuKey struct{}

type menuState struct {
	category   Renderer
	activePath string
}

func stateFrom(ctx context.Context) *menuState {
	if s, ok := ctx.Value(menuKey{}).(*menuState); ok {
		return s
	}
	return &menuState{category: DefaultRenderer{}}
}

// Menu renders the whole sidebar. Categories at every depth go through
// category; the item whose Href equals activePath is marked active.
func Menu(items []Item, category Renderer, activePath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		r := category
		if r == nil {
			r = DefaultRenderer{}
		}
		ctx = context.WithValue(ctx, menuKey{}, &menuState{category: r, activePath: activePath})

		if _, err := io.WriteString(w, `<nav class="menu thin-scrollbar" aria-label="Docs sidebar"><ul class="theme-doc-sidebar-menu menu__list">`); err != nil {
			return err
		}
		if err := List(items).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</ul></nav>`)
		return err
	})
}

// List renders items as <li> elements using the renderer installed by Menu.
func List(items []Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := stateFrom(ctx)
		for _, item := range items {
			var c templ.Component
			if item.Type == TypeCategory {
				c = state.category.Render(item, Attrs{})
			} else {
				c = linkItem(item, state.activePath)
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// DefaultRenderer writes a category as a collapsible list item.
type DefaultRenderer struct{}

// Render implements Renderer.
func (DefaultRenderer) Render(item Item, attrs Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := stateFrom(ctx)

		classes := []string{"theme-doc-sidebar-item-category", "menu__list-item"}
		if item.Collapsed {
			classes = append(classes, "menu__list-item--collapsed")
		}
		if item.ClassName != "" {
			classes = append(classes, item.ClassName)
		}

		var b strings.Builder
		b.WriteString(`<li class="`)
		b.WriteString(templ.EscapeString(strings.Join(classes, " ")))
		b.WriteString(`"`)
		if len(attrs.Style) > 0 {
			b.WriteString(` style="`)
			b.WriteString(templ.EscapeString(attrs.StyleString()))
			b.WriteString(`"`)
		}
		for _, m := range attrs.Markers {
			b.WriteString(" ")
			b.WriteString(templ.EscapeString(m))
		}
		b.WriteString(`><div class="menu__list-item-collapsible">`)

		linkClass := "menu__link menu__link--sublist"
		if item.Collapsible {
			linkClass += " menu__link--sublist-caret"
		}
		if item.Href != "" && item.Href == state.activePath {
			linkClass += " menu__link--active"
		}
		if item.Href != "" {
			b.WriteString(`<a class="` + linkClass + `" href="`)
			b.WriteString(templ.EscapeString(item.Href))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(item.Label))
			b.WriteString(`</a>`)
		} else {
			b.WriteString(`<button class="` + linkClass + `" type="button" aria-expanded="`)
			if item.Collapsed {
				b.WriteString("false")
			} else {
				b.WriteString("true")
			}
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(item.Label))
			b.WriteString(`</button>`)
		}
		b.WriteString(`</div><ul class="menu__list">`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := List(item.Items).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</ul></li>`)
		return err
	})
}

func linkItem(item Item, activePath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		kind := "theme-doc-sidebar-item-link-level"
		if item.Type == TypeLink {
			kind = "theme-doc-sidebar-item-link"
		}
		linkClass := "menu__link"
		if item.Href == activePath && activePath != "" {
			linkClass += " menu__link--active"
		}

		var b strings.Builder
		b.WriteString(`<li class="` + kind + ` menu__list-item`)
		if item.ClassName != "" {
			b.WriteString(" " + templ.EscapeString(item.ClassName))
		}
		b.WriteString(`"><a class="` + linkClass + `" href="`)
		b.WriteString(templ.EscapeString(item.Href))
		b.WriteString(`"`)
		if linkClass != "menu__link" {
			b.WriteString(` aria-current="page"`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(item.Label))
		b.WriteString(`</a></li>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
