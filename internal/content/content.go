// Package content loads a directory of markdown documents into pages and
// the sidebar tree that links them.
//
// Every directory becomes a sidebar category. A _category_.yml file inside
// it may set the label, position, collapsed state and customProps (such as
// the icon name). A leading number prefix like "02-" on a file or directory
// orders it and is dropped from its slug and label.
package content

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/frontmatter"
	"github.com/conneroisu/docskin/internal/sidebar"
)

var numberPrefix = regexp.MustCompile(`^(\d+)[-_.]\s*`)

var categoryFiles = []string{"_category_.yml", "_category_.yaml"}

// Page is one rendered document.
type Page struct {
	Slug  string
	Href  string
	Title string
	// Body renders the markdown body as HTML.
	Body templ.Component
	Doc  *frontmatter.Document
	Prev  *sidebar.Item
	Next  *sidebar.Item
}

// OutputPath is where the page is written relative to the output root.
func (p *Page) OutputPath() string {
	return path.Join(strings.TrimPrefix(p.Href, "/"), "index.html")
}

// Tree is the loaded documentation.
type Tree struct {
	Pages   []*Page
	Sidebar []sidebar.Item
}

// Page returns the page served at href.
func (t *Tree) Page(href string) (*Page, bool) {
	for _, p := range t.Pages {
		if p.Href == href {
			return p, true
		}
	}
	return nil, false
}

// Loader turns a docs directory into a Tree.
type Loader struct {
	routePrefix string
	plugins     []frontmatter.Plugin
	markdown    goldmark.Markdown
	title       cases.Caser
}

// NewLoader creates a loader that serves pages under routePrefix and runs
// plugins on every document after parsing.
func NewLoader(routePrefix string, plugins ...frontmatter.Plugin) *Loader {
	return &Loader{
		routePrefix: routePrefix,
		plugins:     plugins,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		title: cases.Title(language.English),
	}
}

type categoryMeta struct {
	Label       string         `yaml:"label"`
	Position    *float64       `yaml:"position"`
	Collapsed   *bool          `yaml:"collapsed"`
	Collapsible *bool          `yaml:"collapsible"`
	ClassName   string         `yaml:"className"`
	CustomProps map[string]any `yaml:"customProps"`
}

// node is a sidebar item plus what it sorts by.
type node struct {
	item     sidebar.Item
	position float64
	hasPos   bool
	name     string
}

// Load reads root from fsys.
func (l *Loader) Load(ctx context.Context, fsys fs.FS, root string) (*Tree, error) {
	tree := &Tree{}
	nodes, err := l.loadDir(ctx, fsys, root, "", tree)
	if err != nil {
		return nil, err
	}
	if err := checkRoutes(tree.Pages); err != nil {
		return nil, err
	}
	tree.Sidebar = items(nodes)
	linkNeighbours(tree)
	return tree, nil
}

// checkRoutes rejects two documents served at the same href.
func checkRoutes(pages []*Page) error {
	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if first, ok := seen[p.Href]; ok {
			return errors.NewValidationError("CONTENT_DUPLICATE_ROUTE",
				fmt.Sprintf("%s is already served by %s", p.Href, first)).WithPath(p.Doc.Path)
		}
		seen[p.Href] = p.Doc.Path
	}
	return nil
}

func (l *Loader) loadDir(ctx context.Context, fsys fs.FS, dir, slugDir string, tree *Tree) ([]node, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.NewIOError("CONTENT_READ_DIR", "reading docs directory", err).WithPath(dir)
	}

	var nodes []node
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		full := path.Join(dir, name)
		pos, hasPos, bare := splitNumberPrefix(name)

		if entry.IsDir() {
			n, ok, err := l.loadCategory(ctx, fsys, full, path.Join(slugDir, bare), tree)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if !n.hasPos && hasPos {
				n.position, n.hasPos = pos, true
			}
			n.name = name
			nodes = append(nodes, n)
			continue
		}

		if path.Ext(name) != ".md" || strings.TrimSuffix(bare, ".md") == "index" {
			continue
		}
		page, n, err := l.loadDoc(fsys, full, path.Join(slugDir, strings.TrimSuffix(bare, ".md")))
		if err != nil {
			return nil, err
		}
		if !n.hasPos && hasPos {
			n.position, n.hasPos = pos, true
		}
		n.name = name
		tree.Pages = append(tree.Pages, page)
		nodes = append(nodes, n)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.hasPos != b.hasPos {
			return a.hasPos
		}
		if a.hasPos && a.position != b.position {
			return a.position < b.position
		}
		return a.name < b.name
	})

	// The root landing page leads the sidebar. Nested index pages become
	// their category's link instead.
	if slugDir == "" {
		page, n, ok, err := l.loadIndex(fsys, dir, slugDir)
		if err != nil {
			return nil, err
		}
		if ok {
			tree.Pages = append(tree.Pages, page)
			nodes = append([]node{n}, nodes...)
		}
	}
	return nodes, nil
}

func (l *Loader) loadCategory(ctx context.Context, fsys fs.FS, dir, slug string, tree *Tree) (node, bool, error) {
	meta, err := readCategoryMeta(fsys, dir)
	if err != nil {
		return node{}, false, err
	}

	children, err := l.loadDir(ctx, fsys, dir, slug, tree)
	if err != nil {
		return node{}, false, err
	}

	item := sidebar.Item{
		Type:        sidebar.TypeCategory,
		ID:          slug,
		Label:       meta.Label,
		ClassName:   meta.ClassName,
		Collapsible: true,
		Items:       items(children),
		CustomProps: sidebar.Props(meta.CustomProps),
	}
	if item.Label == "" {
		item.Label = l.labelFor(path.Base(slug))
	}
	if meta.Collapsible != nil {
		item.Collapsible = *meta.Collapsible
	}
	if meta.Collapsed != nil {
		item.Collapsed = *meta.Collapsed && item.Collapsible
	}

	page, _, hasIndex, err := l.loadIndex(fsys, dir, slug)
	if err != nil {
		return node{}, false, err
	}
	if hasIndex {
		item.Href = page.Href
		tree.Pages = append(tree.Pages, page)
	}
	if len(item.Items) == 0 && !hasIndex {
		return node{}, false, nil
	}

	n := node{item: item}
	if meta.Position != nil {
		n.position, n.hasPos = *meta.Position, true
	}
	return n, true, nil
}

func readCategoryMeta(fsys fs.FS, dir string) (categoryMeta, error) {
	var meta categoryMeta
	for _, name := range categoryFiles {
		file := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return meta, errors.NewParseError("CATEGORY_YAML", file, err)
		}
		return meta, nil
	}
	return meta, nil
}

// loadIndex loads dir/index.md when present. It is the landing page of a
// category, or of the whole site when dir is the root.
func (l *Loader) loadIndex(fsys fs.FS, dir, slug string) (*Page, node, bool, error) {
	file := path.Join(dir, "index.md")
	if _, err := fs.Stat(fsys, file); err != nil {
		return nil, node{}, false, nil
	}
	page, n, err := l.loadDoc(fsys, file, slug)
	if err != nil {
		return nil, node{}, false, err
	}
	return page, n, true, nil
}

func (l *Loader) loadDoc(fsys fs.FS, file, slug string) (*Page, node, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, node{}, errors.NewIOError("CONTENT_READ_FILE", "reading doc", err).WithPath(file)
	}

	doc, err := frontmatter.Parse(file, data)
	if err != nil {
		return nil, node{}, err
	}
	if err := doc.Apply(l.plugins...); err != nil {
		return nil, node{}, err
	}

	src := []byte(doc.Body)
	root := l.markdown.Parser().Parse(text.NewReader(src))

	title := l.titleFor(doc, firstHeading(root, src), slug)
	if s := doc.String("slug"); s != "" {
		slug = strings.Trim(s, "/")
	}

	page := &Page{
		Slug:  slug,
		Href:  path.Join("/", l.routePrefix, slug),
		Title: title,
		Body:  l.body(file, root, src),
		Doc:   doc,
	}

	label := doc.String("sidebar_label")
	if label == "" {
		label = page.Title
	}
	item := sidebar.Item{
		Type:      sidebar.TypeDoc,
		ID:        slug,
		Label:     label,
		Href:      page.Href,
		ClassName: doc.String("sidebar_class_name"),
	}
	if props, ok := doc.FrontMatter["sidebar_custom_props"].(map[string]any); ok {
		item.CustomProps = sidebar.Props(props)
	}

	n := node{item: item}
	if p, ok := doc.Float("sidebar_position"); ok {
		n.position, n.hasPos = p, true
	}
	return page, n, nil
}

// body renders a parsed document. Rendering happens per page build so a
// failure only affects that page.
func (l *Loader) body(file string, root ast.Node, src []byte) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := l.markdown.Renderer().Render(w, src, root); err != nil {
			return errors.NewRenderError("MARKDOWN", "rendering markdown", err).WithPath(file)
		}
		return nil
	})
}

func (l *Loader) titleFor(doc *frontmatter.Document, heading, slug string) string {
	if t := doc.String("title"); t != "" {
		return t
	}
	if heading != "" {
		return heading
	}
	if slug == "" {
		return "Home"
	}
	return l.labelFor(path.Base(slug))
}

// firstHeading returns the text of the first top-level "#" heading.
// Headings nested in lists or quotes and lines in code blocks do not count.
func firstHeading(root ast.Node, src []byte) string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return strings.TrimSpace(inlineText(h, src))
		}
	}
	return ""
}

func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

// labelFor turns a file or directory name into a display label.
func (l *Loader) labelFor(name string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return l.title.String(words)
}

func splitNumberPrefix(name string) (float64, bool, string) {
	m := numberPrefix.FindStringSubmatch(name)
	if m == nil {
		return 0, false, name
	}
	bare := name[len(m[0]):]
	if bare == "" || "."+bare == path.Ext(name) {
		return 0, false, name
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, name
	}
	return float64(n), true, bare
}

func items(nodes []node) []sidebar.Item {
	out := make([]sidebar.Item, len(nodes))
	for i, n := range nodes {
		out[i] = n.item
	}
	return out
}

// linkNeighbours sets Prev and Next on each page in sidebar order.
func linkNeighbours(tree *Tree) {
	var docs []sidebar.Item
	for _, item := range sidebar.Flatten(tree.Sidebar) {
		if _, ok := tree.Page(item.Href); ok {
			docs = append(docs, item)
		}
	}
	for i, item := range docs {
		page, _ := tree.Page(item.Href)
		if i > 0 {
			prev := docs[i-1]
			page.Prev = &prev
		}
		if i+1 < len(docs) {
			next := docs[i+1]
			page.Next = &next
		}
	}
}
