package sidebar

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/docskin/internal/datauri"
	"github.com/conneroisu/docskin/internal/icons"
)

const (
	// IconPropKey is the customProps key naming a category icon.
	IconPropKey = "icon"
	// IconProperty is the CSS custom property holding the icon URL.
	IconProperty = "--category-icon"
	// IconMarker is set on categories that render with an icon.
	IconMarker = "data-has-icon"
)

// IconAttrs resolves the icon attributes for item. It returns zero Attrs
// when the item names no icon or names one the table does not have.
func IconAttrs(item Item, table icons.Lookup) Attrs {
	name, ok := item.CustomProps.String(IconPropKey).Get()
	if !ok || table == nil {
		return Attrs{}
	}
	markup, ok := table.Lookup(name).Get()
	if !ok {
		return Attrs{}
	}
	return Attrs{
		Style:   []StyleProperty{{Name: IconProperty, Value: datauri.CSSURL(markup)}},
		Markers: []string{IconMarker},
	}
}

// Decorate renders item through base, adding the icon style and marker
// when item references a known icon.
func Decorate(base Renderer, table icons.Lookup, item Item) templ.Component {
	return base.Render(item, IconAttrs(item, table))
}

// IconCategory is a Renderer that decorates categories with icons before
// handing them to Base.
type IconCategory struct {
	Base  Renderer
	Icons icons.Lookup
}

// Render implements Renderer.
func (c IconCategory) Render(item Item, attrs Attrs) templ.Component {
	base := c.Base
	if base == nil {
		base = DefaultRenderer{}
	}
	return base.Render(item, attrs.Merge(IconAttrs(item, c.Icons)))
}
