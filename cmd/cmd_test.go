package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docskin/internal/errors"
)

// project creates a docs project in a temp dir and makes it the working
// directory for the test.
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func defaultProject(t *testing.T) string {
	t.Helper()
	return project(t, map[string]string{
		"docs/intro.md":              "---\ntitle: Intro\nsidebar_position: 1\n---\nWelcome.\n",
		"docs/guides/_category_.yml": "label: Guides\ncustomProps:\n  icon: book\n",
		"docs/guides/setup.md":       "# Setup\n",
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(path))
	require.NoError(t, err)
	return string(data)
}

func TestBuildCommand(t *testing.T) {
	defaultProject(t)

	out, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 2 pages and 0 redirects")
	assert.Contains(t, out, "into build")

	intro := readFile(t, "build/docs/intro/index.html")
	assert.Contains(t, intro, "<title>Intro | Documentation</title>")
	assert.Equal(t, 1, strings.Count(intro, "data-has-icon>"))
	assert.Contains(t, intro, `style="--category-icon: url(&#34;data:image/svg+xml,%3Csvg`)
	assert.FileExists(t, "build/theme.css")
}

func TestBuildCommandFlags(t *testing.T) {
	defaultProject(t)

	_, err := execute(t, "build", "--out", "public", "--workers", "1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("public", "docs", "guides", "setup", "index.html"))
	assert.NoDirExists(t, "build")

	_, err = execute(t, "build", "--workers", "0")
	assert.Error(t, err)
}

func TestBuildCommandConfigFile(t *testing.T) {
	defaultProject(t)
	require.NoError(t, os.WriteFile(".docskin.yml", []byte(`
site:
  title: Handbook
redirects:
  - from: /old-intro
    to: /docs/intro
`), 0o644))

	out, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 2 pages and 1 redirects")
	assert.Contains(t, readFile(t, "build/docs/intro/index.html"), "<title>Intro | Handbook</title>")
	assert.Contains(t, readFile(t, "build/old-intro/index.html"), "url=/docs/intro")
}

func TestBuildCommandEnvironment(t *testing.T) {
	defaultProject(t)
	t.Setenv("DOCSKIN_SITE_TITLE", "From Env")

	_, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "build/docs/intro/index.html"), "<title>Intro | From Env</title>")
}

func TestConfigErrors(t *testing.T) {
	defaultProject(t)

	_, err := execute(t, "build", "--config", "missing.yml")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "CONFIG_READ", e.Code)

	_, err = execute(t, "build", "--log-level", "loud")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "LOG_LEVEL", e.Code)

	_, err = execute(t, "build", "--log-format", "xml")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "LOG_FORMAT", e.Code)
}

func TestIconsList(t *testing.T) {
	project(t, map[string]string{
		"static/icons/box.svg":   "<svg><rect/></svg>\n",
		"static/icons/extra.svg": "<svg><circle/></svg>\n",
	})

	out, err := execute(t, "icons", "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "NAME"))
	assert.Contains(t, out, "book")
	assert.Contains(t, out, "extra")
	// Site icons replace bundled ones of the same name.
	assert.Regexp(t, `(?m)^box\s+18$`, out)
}

func TestIconsEncode(t *testing.T) {
	project(t, map[string]string{
		"static/icons/quote.svg": `<svg class="q"></svg>`,
		"art/it's.svg":           "<svg>'</svg>",
	})

	out, err := execute(t, "icons", "encode", "quote")
	require.NoError(t, err)
	assert.Equal(t, "--category-icon: url(\"data:image/svg+xml,%3Csvg%20class%3D%22q%22%3E%3C%2Fsvg%3E\");\n", out)

	out, err = execute(t, "icons", "encode", "art/it's.svg", "--uri")
	require.NoError(t, err)
	assert.Equal(t, "data:image/svg+xml,%3Csvg%3E'%3C%2Fsvg%3E\n", out)

	_, err = execute(t, "icons", "encode", "nope")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "ICON_UNKNOWN", e.Code)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "docskin "))

	out, err = execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")

	_, err = execute(t, "version", "--format", "xml")
	assert.Error(t, err)
}
