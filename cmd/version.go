package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docskin/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the docskin version, commit, build time, Go version and platform.

Examples:
  docskin version              # Show short version
  docskin version --detailed   # Show every build field
  docskin version --format json`,
		Args: cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			detailed, _ := cmd.Flags().GetBool("detailed")
			info := version.Get()
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "text":
				if detailed {
					fmt.Fprintln(out, info.Detailed())
					return nil
				}
				fmt.Fprintf(out, "docskin %s\n", info.Short())
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	cmd.Flags().Bool("detailed", false, "show detailed version information")
	return cmd
}
