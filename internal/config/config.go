// Package config loads docskin configuration using Viper from .docskin.yml,
// DOCSKIN_ environment variables and command-line flags.
//
// Defaults are registered on the Viper instance before unmarshalling, so a
// missing config file still yields a complete, validated Config.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/redirect"
)

type Config struct {
	Site      SiteConfig      `mapstructure:"site" yaml:"site"`
	Docs      DocsConfig      `mapstructure:"docs" yaml:"docs"`
	Icons     IconsConfig     `mapstructure:"icons" yaml:"icons"`
	Build     BuildConfig     `mapstructure:"build" yaml:"build"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Redirects []redirect.Rule `mapstructure:"redirects" yaml:"redirects"`
}

type SiteConfig struct {
	Title       string `mapstructure:"title" yaml:"title"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	RoutePrefix string `mapstructure:"route_prefix" yaml:"route_prefix"`
}

type DocsConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`
	RawMarkdown bool   `mapstructure:"raw_markdown" yaml:"raw_markdown"`
}

type IconsConfig struct {
	// Dir holds site icons; they override bundled icons of the same name.
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Bundled bool   `mapstructure:"bundled" yaml:"bundled"`
}

type BuildConfig struct {
	OutDir  string `mapstructure:"out_dir" yaml:"out_dir"`
	Workers int    `mapstructure:"workers" yaml:"workers"`
}

type ServerConfig struct {
	Host       string        `mapstructure:"host" yaml:"host"`
	Port       int           `mapstructure:"port" yaml:"port"`
	LiveReload bool          `mapstructure:"live_reload" yaml:"live_reload"`
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.title", "Documentation")
	v.SetDefault("site.base_url", "/")
	v.SetDefault("site.route_prefix", "docs")
	v.SetDefault("docs.dir", "docs")
	v.SetDefault("docs.raw_markdown", true)
	v.SetDefault("icons.dir", "static/icons")
	v.SetDefault("icons.bundled", true)
	v.SetDefault("build.out_dir", "build")
	v.SetDefault("build.workers", runtime.NumCPU())
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.live_reload", true)
	v.SetDefault("server.debounce", 200*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError("CONFIG_DECODE", fmt.Sprintf("decoding configuration: %v", err))
	}

	config.Site.RoutePrefix = strings.Trim(config.Site.RoutePrefix, "/")

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return errors.NewConfigError("SERVER_PORT",
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Server.Port))
	}
	if strings.ContainsAny(config.Server.Host, ";&|$`()<>\"'\\ ") {
		return errors.NewConfigError("SERVER_HOST", fmt.Sprintf("host %q contains invalid characters", config.Server.Host))
	}
	if config.Server.Debounce < 0 {
		return errors.NewConfigError("SERVER_DEBOUNCE", "debounce must not be negative")
	}

	if config.Build.Workers < 1 {
		return errors.NewConfigError("BUILD_WORKERS", fmt.Sprintf("workers must be at least 1, got %d", config.Build.Workers))
	}

	for key, dir := range map[string]string{
		"docs.dir":      config.Docs.Dir,
		"build.out_dir": config.Build.OutDir,
	} {
		if err := validatePath(dir); err != nil {
			return errors.NewConfigError("PATH", fmt.Sprintf("%s: %v", key, err))
		}
	}
	if config.Icons.Dir != "" {
		if err := validatePath(config.Icons.Dir); err != nil {
			return errors.NewConfigError("PATH", fmt.Sprintf("icons.dir: %v", err))
		}
	}
	// Sources are read through an fs.FS rooted at the project directory.
	for key, dir := range map[string]string{
		"docs.dir":  config.Docs.Dir,
		"icons.dir": config.Icons.Dir,
	} {
		if filepath.IsAbs(dir) {
			return errors.NewConfigError("PATH", fmt.Sprintf("%s: %s must be relative to the project root", key, dir))
		}
	}
	if filepath.Clean(config.Docs.Dir) == filepath.Clean(config.Build.OutDir) {
		return errors.NewConfigError("BUILD_OUT_DIR", "build.out_dir must differ from docs.dir")
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return errors.NewConfigError("LOG_FORMAT", fmt.Sprintf("log format %q is not text or json", config.Log.Format))
	}

	return redirect.Validate(config.Redirects)
}

// validatePath validates a project-relative directory path.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	if strings.ContainsAny(cleanPath, ";&|$`()<>\"'") {
		return fmt.Errorf("path contains dangerous character: %s", path)
	}

	return nil
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// EnvKeyReplacer maps config keys such as server.port to DOCSKIN_SERVER_PORT.
func EnvKeyReplacer() *strings.Replacer {
	return envKeyReplacer
}
