// Package sidebar renders the documentation navigation tree.
//
// Rendering of a category goes through a Renderer. The default renderer
// writes the plain markup; IconCategory wraps any renderer and adds a
// --category-icon CSS custom property for categories whose customProps name
// an icon from the icon table.
package sidebar

import (
	"github.com/conneroisu/docskin/internal/types"
)

// ItemType distinguishes sidebar nodes.
type ItemType string

const (
	TypeCategory ItemType = "category"
	TypeDoc      ItemType = "doc"
	TypeLink     ItemType = "link"
)

// Item is a node of the sidebar tree.
type Item struct {
	Type      ItemType
	ID        string
	Label     string
	Href      string
	ClassName string
	Collapsed bool
	// Collapsible is only meaningful for categories.
	Collapsible bool
	Items       []Item
	CustomProps Props
}

// Props holds free-form customProps from category and doc metadata.
type Props map[string]any

// String returns the value under key when it is a string.
func (p Props) String(key string) types.Option[string] {
	v, ok := p[key]
	if !ok {
		return types.None[string]()
	}
	s, ok := v.(string)
	if !ok {
		return types.None[string]()
	}
	return types.Some(s)
}

// Flatten returns the doc and link items of the tree in reading order,
// including categories that carry their own link.
func Flatten(items []Item) []Item {
	var out []Item
	for _, item := range items {
		if item.Href != "" {
			out = append(out, item)
		}
		if item.Type == TypeCategory {
			out = append(out, Flatten(item.Items)...)
		}
	}
	return out
}
