package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petal-labs/voiceprint/server"
)

func (a *App) newServeCommand() *cobra.Command {
	var (
		addr        string
		withMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the studio API over HTTP",
		Long: `Serve the studio operations as a JSON API for a browser or desktop UI.
Requests may carry their own provider credentials; otherwise the provider's
environment variable is used.

Examples:
  voiceprint serve
  voiceprint serve --listen 0.0.0.0:8787 --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.cfg.Server
			cfg := server.Config{
				ListenAddress:  settings.ListenAddress,
				ReadTimeout:    settings.ReadTimeout,
				WriteTimeout:   settings.WriteTimeout,
				RequestTimeout: a.timeout,
			}
			if addr != "" {
				cfg.ListenAddress = addr
			}

			opts := []server.Option{
				server.WithLogger(a.logger),
				server.WithCredentials(a.serverCredentials),
			}
			if withMetrics {
				opts = append(opts, server.WithMetrics(a.enableMetrics().Handler()))
			}
			srv := server.New(cfg, a.newStudio(), opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return a.handleError(exitWithCode(ExitNetwork, err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "listen", "", "listen address (default from config, 127.0.0.1:8787)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "expose Prometheus metrics at /metrics")
	return cmd
}
