package sidebar

import (
	"slices"
	"strings"
)

// StyleProperty is one CSS declaration.
type StyleProperty struct {
	Name  string
	Value string
}

// Attrs carries the extra rendering attributes a decorator hands to the
// base renderer.
type Attrs struct {
	Style []StyleProperty
	// Markers are boolean attributes, written without a value.
	Markers []string
}

// IsZero reports whether no attributes are set.
func (a Attrs) IsZero() bool {
	return len(a.Style) == 0 && len(a.Markers) == 0
}

// StyleValue returns the value of the named style property.
func (a Attrs) StyleValue(name string) (string, bool) {
	for _, p := range a.Style {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// HasMarker reports whether the boolean attribute name is set.
func (a Attrs) HasMarker(name string) bool {
	return slices.Contains(a.Markers, name)
}

// StyleString formats the style properties for a style attribute.
func (a Attrs) StyleString() string {
	parts := make([]string, len(a.Style))
	for i, p := range a.Style {
		parts[i] = p.Name + ": " + p.Value
	}
	return strings.Join(parts, "; ")
}

// Merge returns a copy of a with other's properties applied on top.
// A property set in both takes other's value.
func (a Attrs) Merge(other Attrs) Attrs {
	out := Attrs{
		Style:   slices.Clone(a.Style),
		Markers: slices.Clone(a.Markers),
	}
	for _, p := range other.Style {
		i := slices.IndexFunc(out.Style, func(q StyleProperty) bool { return q.Name == p.Name })
		if i >= 0 {
			out.Style[i] = p
			continue
		}
		out.Style = append(out.Style, p)
	}
	for _, m := range other.Markers {
		if !slices.Contains(out.Markers, m) {
			out.Markers = append(out.Markers, m)
		}
	}
	return out
}
