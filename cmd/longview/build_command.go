package main

import (
	"github.com/spf13/cobra"

	"longview/internal/logging"
	"longview/internal/lvdate"
	"longview/internal/workflow"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the timeline and publish it to the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, logger, err := ctx.runLogger(commandContextOf(cmd), cfg)
			if err != nil {
				return err
			}

			opts := []workflow.Option{workflow.WithLogger(logger), workflow.WithClock(ctx.clock)}
			if skipPreflight {
				opts = append(opts, workflow.WithoutPreflight())
			}
			result, err := workflow.New(cfg, opts...).Run(runCtx)
			if err != nil {
				logging.ErrorWithContext(logger, "build failed", "build_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, workflow.ExitHint(err)),
					logging.String(logging.FieldImpact, "output directory left unchanged"),
				)
				return err
			}

			out := cmd.OutOrStdout()
			fprintf(out, "Published %s (now %s)\n", result.Output, result.Now.Format(lvdate.DefaultStyle))
			fprintf(out, "Rows: %d drawn, %d skipped; nav cells: %d\n", result.Rows, len(result.Skipped), result.NavCells)
			fprintf(out, "Files: %d updated, %d added, %d removed\n",
				result.Changes.Updated, result.Changes.Added, result.Changes.Removed)
			if n := result.Notifications; n.Pending > 0 {
				fprintf(out, "Notifications: %d sent, %d failed\n", n.Sent, n.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip input and delivery readiness checks")
	return cmd
}
