package cli

import (
	"fmt"

	"github.com/felixgeelhaar/tasker/adapter/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the task widget over HTTP",
	Annotations: map[string]string{annotationOwnOutput: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		cfg := web.DefaultServerConfig()
		cfg.Addr = app.Config.WebAddr
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Serving tasks on http://%s (Ctrl+C to stop)\n", cfg.Addr)
		return web.NewServer(cfg, web.NewHandler(app.Container), app.Logger).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to web_addr)")
	rootCmd.AddCommand(serveCmd)
}
