// Package icons holds the table of named SVG icons that sidebar categories
// can reference through their customProps.
//
// A Table is built once, through NewTable, LoadFS or Default, and is never
// modified afterwards, so it can be shared by concurrent renders.
package icons

import (
	"bytes"
	"embed"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/types"
)

//go:embed assets/*.svg
var bundled embed.FS

// Lookup is the read-only view of an icon table.
type Lookup interface {
	Lookup(name string) types.Option[string]
	Names() []string
}

// Table maps icon names to raw SVG markup.
type Table struct {
	icons map[string]string
}

var _ Lookup = (*Table)(nil)

// NewTable builds a table from a copy of icons.
func NewTable(icons map[string]string) *Table {
	return &Table{icons: maps.Clone(icons)}
}

// Lookup returns the markup registered under name.
func (t *Table) Lookup(name string) types.Option[string] {
	if t == nil {
		return types.None[string]()
	}
	markup, ok := t.icons[name]
	if !ok {
		return types.None[string]()
	}
	return types.Some(markup)
}

// Names returns the registered icon names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.icons))
}

// Len returns the number of icons.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.icons)
}

// Merge returns a new table holding base plus overlay, overlay winning.
func Merge(base, overlay *Table) *Table {
	merged := make(map[string]string, base.Len()+overlay.Len())
	if base != nil {
		maps.Copy(merged, base.icons)
	}
	if overlay != nil {
		maps.Copy(merged, overlay.icons)
	}
	return &Table{icons: merged}
}

// LoadFS reads every *.svg file directly inside dir. The icon name is the
// file name without its extension.
func LoadFS(fsys fs.FS, dir string) (*Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.NewIOError("ICONS_READ_DIR", "reading icon directory", err).WithPath(dir)
	}

	icons := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".svg" {
			continue
		}
		file := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, errors.NewIOError("ICONS_READ_FILE", "reading icon", err).WithPath(file)
		}
		markup, err := Parse(file, data)
		if err != nil {
			return nil, err
		}
		icons[strings.TrimSuffix(entry.Name(), ".svg")] = markup
	}

	return &Table{icons: icons}, nil
}

// Parse trims an icon file and checks that it holds SVG markup. name is
// only used in the error.
func Parse(name string, data []byte) (string, error) {
	markup := strings.TrimSpace(string(data))
	if err := validateSVG(markup); err != nil {
		return "", err.WithPath(name)
	}
	return markup, nil
}

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return LoadFS(bundled, "assets")
})

// Default returns the icons bundled with the binary.
func Default() *Table {
	t, err := loadDefault()
	if err != nil {
		// The bundled assets are fixed at compile time.
		panic(err)
	}
	return t
}

// validateSVG checks that markup parses and contains an <svg> element.
func validateSVG(markup string) *errors.Error {
	if markup == "" {
		return errors.NewValidationError("ICON_EMPTY", "icon file is empty")
	}

	nodes, err := html.ParseFragment(bytes.NewReader([]byte(markup)), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return errors.NewValidationError("ICON_PARSE", "icon markup does not parse: "+err.Error())
	}

	for _, n := range nodes {
		if containsSVG(n) {
			return nil
		}
	}
	return errors.NewValidationError("ICON_NOT_SVG", "icon markup has no <svg> element")
}

func containsSVG(n *html.Node) bool {
	if n.Type == html.ElementNode && n.DataAtom == atom.Svg {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsSVG(c) {
			return true
		}
	}
	return false
}
