package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docskin/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Preview the site with live reload",
		Long: `Build the site, serve it and rebuild whenever a document, category file
or icon changes. Connected browsers reload after each successful build.

Examples:
  docskin serve                     # Serve on localhost:3000
  docskin serve -p 8080             # Serve on another port
  docskin serve --live-reload=false # Serve without the reload script`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().IntP("port", "p", 3000, "port to serve on")
	cmd.Flags().String("host", "localhost", "host to bind to")
	cmd.Flags().Bool("live-reload", true, "reload browsers after each rebuild")
	bindFlags(a.v, cmd.Flags(), map[string]string{
		"server.port":        "port",
		"server.host":        "host",
		"server.live_reload": "live-reload",
	})
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	builder, err := a.newBuilder()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s:%d/\n",
		a.config.Site.Title, a.config.Server.Host, a.config.Server.Port)
	return server.New(a.config, builder, a.logger).ListenAndRun(ctx)
}
