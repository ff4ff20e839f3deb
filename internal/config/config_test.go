package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/redirect"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Documentation", cfg.Site.Title)
	assert.Equal(t, "docs", cfg.Site.RoutePrefix)
	assert.Equal(t, "docs", cfg.Docs.Dir)
	assert.True(t, cfg.Docs.RawMarkdown)
	assert.Equal(t, "static/icons", cfg.Icons.Dir)
	assert.True(t, cfg.Icons.Bundled)
	assert.Equal(t, "build", cfg.Build.OutDir)
	assert.Equal(t, runtime.NumCPU(), cfg.Build.Workers)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 200*time.Millisecond, cfg.Server.Debounce)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Redirects)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".docskin.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
site:
  title: Handbook
  route_prefix: /handbook/
docs:
  dir: content
  raw_markdown: false
icons:
  bundled: false
build:
  workers: 2
server:
  port: 8080
  debounce: 1s
redirects:
  - from: /old-intro
    to: /handbook/intro
`), 0o644))

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "Handbook", cfg.Site.Title)
	assert.Equal(t, "handbook", cfg.Site.RoutePrefix)
	assert.Equal(t, "content", cfg.Docs.Dir)
	assert.False(t, cfg.Docs.RawMarkdown)
	assert.False(t, cfg.Icons.Bundled)
	assert.Equal(t, 2, cfg.Build.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Server.Debounce)
	assert.Equal(t, []redirect.Rule{{From: "/old-intro", To: "/handbook/intro"}}, cfg.Redirects)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DOCSKIN_SERVER_PORT", "4000")

	v := viper.New()
	v.SetEnvPrefix("DOCSKIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(envKeyReplacer)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
		code string
	}{
		{"port out of range", map[string]any{"server.port": 70000}, "SERVER_PORT"},
		{"bad host", map[string]any{"server.host": "local;host"}, "SERVER_HOST"},
		{"zero workers", map[string]any{"build.workers": 0}, "BUILD_WORKERS"},
		{"traversal", map[string]any{"docs.dir": "../outside"}, "PATH"},
		{"absolute docs", map[string]any{"docs.dir": "/srv/docs"}, "PATH"},
		{"same dirs", map[string]any{"docs.dir": "site", "build.out_dir": "./site"}, "BUILD_OUT_DIR"},
		{"log format", map[string]any{"log.format": "xml"}, "LOG_FORMAT"},
		{"bad redirect", map[string]any{"redirects": []map[string]any{{"from": "old", "to": "/new"}}}, "REDIRECT_FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := LoadFrom(v)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.code, e.Code)
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath("docs"))
	assert.NoError(t, validatePath("./nested/dir"))
	assert.NoError(t, validatePath("..docs"))
	assert.Error(t, validatePath(""))
	assert.Error(t, validatePath(".."))
	assert.Error(t, validatePath("a/../../b"))
	assert.Error(t, validatePath("docs$(rm)"))
}
