package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/tsawler/polyorder/internal/server"
	"github.com/tsawler/polyorder/layout"
)

func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sorting API over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /v1/sort   body: predictions JSON; query: direction, threshold_ratio, rows
  GET  /healthz   liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if !cmd.Flags().Changed("listen") {
				listen = cfg.Listen
			}

			srv := server.New(c.Logger, layout.ReadingOrderConfig{
				Direction: cfg.ReadingDirection(),
				RowConfig: layout.RowConfig{ThresholdRatio: cfg.ThresholdRatio},
			})

			c.printInfo("listening on %s", listen)
			err := srv.ListenAndServe(cmd.Context(), listen)
			if errors.Is(err, context.Canceled) {
				c.Logger.Info("server stopped")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8080", "address to listen on")
	return cmd
}
