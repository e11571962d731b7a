package cli

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"woo-admin/internal/web"
)

func serveCommand(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			// A store that cannot be reached must not stop the server; the
			// operator fixes settings through the API.
			if err := a.Controller.Start(cmd.Context()); err != nil {
				log.Warn("Initial store load failed", "err", err)
			}
			if addr == "" {
				addr = a.Config.ListenAddr
			}
			gin.SetMode(gin.ReleaseMode)
			return web.Serve(cmd.Context(), addr, web.NewRouter(a.Controller, log.Default()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
