package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docskin/internal/datauri"
	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/icons"
	"github.com/conneroisu/docskin/internal/sidebar"
	"github.com/conneroisu/docskin/internal/site"
)

func newIconsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Inspect the icon table",
	}
	cmd.AddCommand(newIconsListCmd(a), newIconsEncodeCmd(a))
	return cmd
}

func newIconsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the icons categories can reference",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := site.LoadIcons(a.config, os.DirFS("."))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBYTES")
			for _, name := range table.Names() {
				markup, _ := table.Lookup(name).Get()
				fmt.Fprintf(w, "%s\t%d\n", name, len(markup))
			}
			return w.Flush()
		},
	}
}

func newIconsEncodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <name|file.svg>",
		Short: "Print the CSS declaration for an icon",
		Long: `Print the --category-icon declaration a category with this icon gets.
The argument is an icon name from the table or a path to an SVG file.

Examples:
  docskin icons encode book
  docskin icons encode static/icons/box.svg
  docskin icons encode book --uri   # Only the data URI`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := a.resolveIcon(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if uriOnly, _ := cmd.Flags().GetBool("uri"); uriOnly {
				fmt.Fprintln(out, datauri.SVG(markup))
				return nil
			}
			fmt.Fprintf(out, "%s: %s;\n", sidebar.IconProperty, datauri.CSSURL(markup))
			return nil
		},
	}
	cmd.Flags().Bool("uri", false, "print only the data URI")
	return cmd
}

// resolveIcon looks arg up in the icon table, then tries it as an SVG file.
func (a *app) resolveIcon(arg string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(arg), ".svg") {
		table, err := site.LoadIcons(a.config, os.DirFS("."))
		if err != nil {
			return "", err
		}
		if markup, ok := table.Lookup(arg).Get(); ok {
			return markup, nil
		}
		return "", errors.NewValidationError("ICON_UNKNOWN",
			fmt.Sprintf("no icon named %q; run docskin icons list", arg))
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", errors.NewIOError("ICON_READ", "reading icon", err).WithPath(arg)
	}
	return icons.Parse(arg, data)
}
