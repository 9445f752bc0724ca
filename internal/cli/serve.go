package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  GET  /healthz
  GET  /version
  POST /v1/layout
  POST /v1/render/{format}

The server shares the configured cache with the CLI and shuts down
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := api.New(runner, c.Logger, cfg, api.WithLayoutDefaults(c.Config.Layout))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
