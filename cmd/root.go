// Package cmd provides the docskin command-line interface.
//
// Configuration is read, highest priority first, from command-line flags,
// DOCSKIN_<SECTION>_<OPTION> environment variables and the config file. The
// config file is --config, else DOCSKIN_CONFIG_FILE, else .docskin.yml in
// the working directory.
package cmd

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/docskin/internal/config"
	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/logging"
)

// app is the state shared by one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	config  *config.Config
	logger  logging.Logger
}

// NewRootCmd builds the docskin command tree with its own Viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "docskin",
		Short: "Build documentation sites with an icon-decorated sidebar",
		Long: `docskin turns a tree of markdown documents into a static site with a
generated sidebar. Sidebar categories can carry an icon through
customProps.icon in _category_.yml; the icon is embedded in the page as a
CSS data URI.

Quick Start:
  docskin build                Build the site into ./build
  docskin serve                Preview with live reload
  docskin icons list           Show the available icons`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .docskin.yml, can also use DOCSKIN_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	bindFlags(a.v, flags, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	})

	root.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newIconsCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// bindFlags binds config keys to the named flags of fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// load reads the config file and environment, then builds the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	explicit := true
	switch {
	case a.cfgFile != "":
		a.v.SetConfigFile(a.cfgFile)
	case os.Getenv("DOCSKIN_CONFIG_FILE") != "":
		a.v.SetConfigFile(os.Getenv("DOCSKIN_CONFIG_FILE"))
	default:
		explicit = false
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".docskin")
	}

	a.v.SetEnvPrefix("DOCSKIN")
	a.v.AutomaticEnv()
	a.v.SetEnvKeyReplacer(config.EnvKeyReplacer())

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !stderrors.As(err, &notFound) {
			return errors.NewConfigError("CONFIG_READ", err.Error())
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.NewConfigError("LOG_LEVEL", err.Error())
	}

	a.config = cfg
	a.logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug(cmd.Context(), "Using config file", "path", used)
	}
	return nil
}
