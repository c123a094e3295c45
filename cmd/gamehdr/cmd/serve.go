package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/api"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	var bind string
	var apiKey string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the gamehdr REST API server over the header log and batch storage
in the data directory. Flags override the matching config values.

Examples:
  gamehdr serve
  gamehdr serve --port 9000 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConfig := api.ServerConfig{
				Bind:   a.cfg.Bind,
				Port:   a.cfg.Port,
				APIKey: a.cfg.APIKey,
			}
			if cmd.Flags().Changed("port") {
				serverConfig.Port = port
			}
			if cmd.Flags().Changed("bind") {
				serverConfig.Bind = bind
			}
			if cmd.Flags().Changed("api-key") {
				serverConfig.APIKey = apiKey
			}
			if serverConfig.APIKey == "" {
				a.logger.Warn().Msg("no API key configured, the API is unauthenticated")
			}

			headerLog, err := a.openLog()
			if err != nil {
				return err
			}
			defer headerLog.Close()

			batches, err := a.openBatches()
			if err != nil {
				return err
			}
			defer batches.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(headerLog, batches, serverConfig, api.NewMetrics(), a.logger)
			return server.Serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVar(&bind, "bind", "", "Address to bind to")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key required in X-API-Key")

	return cmd
}
