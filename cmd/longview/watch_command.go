package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"longview/internal/logging"
	"longview/internal/watch"
	"longview/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the timeline whenever an input file changes",
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

			files := cfg.InputFiles()
			if ctx.configPath != "" {
				files = append(files, ctx.configPath)
			}
			watcher, err := watch.New(files, debounce, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()

			build := func() {
				if _, err := workflow.New(cfg, workflow.WithLogger(logger), workflow.WithClock(ctx.clock)).Run(runCtx); err != nil {
					logging.ErrorWithContext(logger, "rebuild failed", "build_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, workflow.ExitHint(err)),
						logging.String(logging.FieldImpact, "published timeline is stale until the next successful build"),
					)
				}
			}
			build()
			logger.Info("watching inputs", logging.Int("files", len(files)))

			err = watcher.Run(runCtx, func(changed []string) {
				logger.Info("inputs changed; rebuilding", logging.Int("files", len(changed)))
				build()
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before rebuilding")
	return cmd
}
