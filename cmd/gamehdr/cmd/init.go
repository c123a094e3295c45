package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file with a generated API key",
		Long: `Write a default configuration file. A random API key is generated for
the REST API.

Examples:
  gamehdr init
  gamehdr init --config ./gamehdr.yaml --data-dir /var/lib/gamehdr`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}

			if config.ConfigExists(path) && !force {
				return fmt.Errorf("config already exists at %s, use --force to overwrite", path)
			}

			cfg, err := config.BootstrapConfig(path, a.cfg.DataDir)
			if err != nil {
				return err
			}

			a.logger.Info().Str("path", path).Msg("wrote config")

			out := struct {
				Path   string `json:"path"`
				APIKey string `json:"api_key"`
			}{path, cfg.APIKey}
			return a.print(cmd, out, func(w io.Writer) {
				fmt.Fprintf(w, "Config written to %s\n", path)
				fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
				fmt.Fprintf(w, "API key: %s\n", cfg.APIKey)
				fmt.Fprintf(w, "\nStart the server with:\n  gamehdr serve --config %s\n", path)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
