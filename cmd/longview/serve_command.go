package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"longview/internal/preview"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the published timeline for local preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, logger, err := ctx.runLogger(commandContextOf(cmd), cfg)
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(runCtx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			router, err := preview.NewRouter(cfg.Paths.OutputDir, logger)
			if err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Serving %s on http://%s/\n", cfg.Paths.OutputDir, addr)
			return preview.Serve(runCtx, addr, router, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	return cmd
}
