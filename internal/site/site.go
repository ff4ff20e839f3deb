// Package site builds the static documentation site: it loads the docs
// tree, renders every page with the icon-decorated sidebar, and writes the
// legacy redirect pages and theme stylesheet.
package site

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/docskin/internal/config"
	"github.com/conneroisu/docskin/internal/content"
	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/frontmatter"
	"github.com/conneroisu/docskin/internal/icons"
	"github.com/conneroisu/docskin/internal/logging"
	"github.com/conneroisu/docskin/internal/redirect"
	"github.com/conneroisu/docskin/internal/sidebar"
)

// Result summarises one build.
type Result struct {
	Pages     int
	Redirects int
	Icons     int
	Duration  time.Duration
}

// Builder renders the site described by a Config.
type Builder struct {
	config *config.Config
	source fs.FS
	icons  icons.Lookup
	logger logging.Logger
	// Head is rendered into every page's <head>. The preview server uses
	// it for the live-reload script.
	Head templ.Component
}

// NewBuilder creates a builder reading docs from source.
func NewBuilder(cfg *config.Config, source fs.FS, table icons.Lookup, logger logging.Logger) *Builder {
	return &Builder{
		config: cfg,
		source: source,
		icons:  table,
		logger: logger.WithComponent("site"),
	}
}

// LoadIcons builds the icon table a config asks for: the bundled icons,
// overlaid with the site's icon directory when it exists.
func LoadIcons(cfg *config.Config, source fs.FS) (*icons.Table, error) {
	table := icons.NewTable(nil)
	if cfg.Icons.Bundled {
		table = icons.Default()
	}
	if cfg.Icons.Dir == "" {
		return table, nil
	}
	dir := fsPath(cfg.Icons.Dir)
	if _, err := fs.Stat(source, dir); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return table, nil
		}
		return nil, errors.NewIOError("ICONS_READ_DIR", "reading icon directory", err).WithPath(dir)
	}
	site, err := icons.LoadFS(source, dir)
	if err != nil {
		return nil, err
	}
	return icons.Merge(table, site), nil
}

// Build renders the whole site into the configured output directory.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	op := logging.StartOperation(b.logger, "build")

	var plugins []frontmatter.Plugin
	if b.config.Docs.RawMarkdown {
		plugins = append(plugins, frontmatter.RawMarkdown)
	}
	tree, err := content.NewLoader(b.config.Site.RoutePrefix, plugins...).
		Load(ctx, b.source, fsPath(b.config.Docs.Dir))
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	outDir := b.config.Build.OutDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		err = errors.NewIOError("OUT_DIR", "creating output directory", err).WithPath(outDir)
		op.EndWithError(ctx, err)
		return nil, err
	}

	category := sidebar.IconCategory{Base: sidebar.DefaultRenderer{}, Icons: b.icons}
	collector := errors.NewErrorCollector()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Build.Workers)
	for _, page := range tree.Pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view := pageView{
				siteTitle: b.config.Site.Title,
				page:      page,
				sidebar:   tree.Sidebar,
				category:  category,
				head:      b.Head,
				onError: func(ctx context.Context, err error) {
					b.logger.Warn(ctx, err, "Doc body fell back", "page", page.Href)
				},
			}
			collector.Add(b.writeComponent(gctx, page.OutputPath(), layout(view)))
			return nil
		})
	}
	for _, rule := range b.config.Redirects {
		g.Go(func() error {
			collector.Add(b.writeComponent(gctx, rule.OutputPath(), redirect.Page(rule)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	collector.Add(b.writeFile(ThemeCSSFile, []byte(themeCSS(b.icons))))

	if err := collector.Err(); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	result := &Result{
		Pages:     len(tree.Pages),
		Redirects: len(b.config.Redirects),
		Duration:  time.Since(start),
	}
	if b.icons != nil {
		result.Icons = len(b.icons.Names())
	}
	op.End(ctx, "pages", result.Pages, "redirects", result.Redirects)
	return result, nil
}

func (b *Builder) writeComponent(ctx context.Context, rel string, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return errors.NewRenderError("RENDER", "rendering page", err).WithPath(rel)
	}
	return b.writeFile(rel, buf.Bytes())
}

func (b *Builder) writeFile(rel string, data []byte) error {
	target := filepath.Join(b.config.Build.OutDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.NewIOError("WRITE", "creating directory", err).WithPath(target)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.NewIOError("WRITE", "writing file", err).WithPath(target)
	}
	return nil
}

// fsPath turns a configured directory into an fs.FS path.
func fsPath(dir string) string {
	return path.Clean(filepath.ToSlash(dir))
}
