package site

import (
	"strings"

	"github.com/conneroisu/docskin/internal/datauri"
	"github.com/conneroisu/docskin/internal/icons"
	"github.com/conneroisu/docskin/internal/sidebar"
)

// ThemeCSSFile is the stylesheet every page links.
const ThemeCSSFile = "theme.css"

// themeCSS draws the --category-icon of decorated categories as a mask
// before the category label, and adds an .icon-<name> class per icon so
// other markup can reuse the same images.
func themeCSS(table icons.Lookup) string {
	var b strings.Builder
	b.WriteString(`.menu__list-item[` + sidebar.IconMarker + `] > .menu__list-item-collapsible > .menu__link::before {
  content: "";
  display: inline-block;
  flex-shrink: 0;
  width: 1.25em;
  height: 1.25em;
  margin-right: 0.5em;
  background-color: currentColor;
  -webkit-mask: var(` + sidebar.IconProperty + `) center / contain no-repeat;
  mask: var(` + sidebar.IconProperty + `) center / contain no-repeat;
}
`)
	if table == nil {
		return b.String()
	}
	for _, name := range table.Names() {
		markup, ok := table.Lookup(name).Get()
		if !ok {
			continue
		}
		b.WriteString(".icon-" + cssIdent(name) + " { " + sidebar.IconProperty + ": " + datauri.CSSURL(markup) + "; }\n")
	}
	return b.String()
}

// cssIdent replaces characters that cannot appear in a class selector.
func cssIdent(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
