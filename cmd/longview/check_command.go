package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"longview/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check inputs, output permissions and notification delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(commandContextOf(cmd), cfg)

			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fprintf(out, "Config: %s\n", ctx.configPath)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "OK"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fprintf(out, "%s\n", renderTable(checkColumns, rows))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}
