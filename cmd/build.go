package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docskin/internal/site"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Build the static site",
		Long: `Render every document, the legacy redirect pages and the theme
stylesheet into the output directory.

Examples:
  docskin build                 # Build into ./build
  docskin build --out public    # Build into ./public
  docskin build --workers 1     # Render pages one at a time`,
		Args: cobra.NoArgs,
		RunE: a.runBuild,
	}

	cmd.Flags().StringP("out", "o", "build", "output directory")
	cmd.Flags().String("docs", "docs", "docs directory")
	cmd.Flags().IntP("workers", "j", 0, "pages rendered concurrently (default number of CPUs)")
	bindFlags(a.v, cmd.Flags(), map[string]string{
		"build.out_dir": "out",
		"docs.dir":      "docs",
	})
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		if workers < 1 {
			return fmt.Errorf("--workers must be at least 1, got %d", workers)
		}
		a.config.Build.Workers = workers
	}

	builder, err := a.newBuilder()
	if err != nil {
		return err
	}
	result, err := builder.Build(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages and %d redirects with %d icons into %s in %s\n",
		result.Pages, result.Redirects, result.Icons, a.config.Build.OutDir, result.Duration.Round(time.Millisecond))
	return nil
}

// newBuilder wires a site builder reading sources from the working directory.
func (a *app) newBuilder() (*site.Builder, error) {
	source := os.DirFS(".")
	table, err := site.LoadIcons(a.config, source)
	if err != nil {
		return nil, err
	}
	return site.NewBuilder(a.config, source, table, a.logger), nil
}
