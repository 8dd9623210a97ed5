package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"longview/internal/layout"
	"longview/internal/logging"
	"longview/internal/notify"
	"longview/internal/workflow"
)

var titleCase = cases.Title(language.English)

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Deliver due notifications without rebuilding the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Notify.Enabled {
				return errors.New("notifications are disabled (set notify.enabled = true)")
			}
			runCtx, logger, err := ctx.runLogger(commandContextOf(cmd), cfg)
			if err != nil {
				return err
			}
			now, err := layout.ResolveNow(cfg.Timeline.NowDate, ctx.clock(), cfg.Timeline.ResolutionMonths)
			if err != nil {
				return err
			}
			svc, ledger, err := notify.Open(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer ledger.Close()

			report, err := notify.Deliver(runCtx, svc, now, logger)
			if err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Notifications due: %d, sent: %d, failed: %d\n", report.Pending, report.Sent, report.Failed)
			return nil
		},
	}
	cmd.AddCommand(newNotifyListCommand(ctx))
	cmd.AddCommand(newNotifyImportCommand(ctx))
	return cmd
}

type notificationView struct {
	Index  int    `json:"index"`
	Row    string `json:"row,omitempty"`
	Date   string `json:"date"`
	Whom   string `json:"whom"`
	Text   string `json:"text"`
	Status string `json:"status"`
	State  string `json:"state"`
}

func notificationState(n notify.Notification) string {
	switch {
	case n.Sent():
		return "sent"
	case n.Status == notify.StatusRetrying:
		return "retrying"
	default:
		return "pending"
	}
}

func newNotifyListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notification ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, ledger, err := notify.Open(commandContextOf(cmd), cfg, logging.NewNop())
			if err != nil {
				return err
			}
			defer ledger.Close()

			dates := workflow.DateStyle(cfg)
			notes := svc.Notifications()
			views := make([]notificationView, 0, len(notes))
			for _, n := range notes {
				views = append(views, notificationView{
					Index:  n.Index,
					Row:    n.Row,
					Date:   n.Date.Format(dates),
					Whom:   n.Whom,
					Text:   n.Text,
					Status: n.Status,
					State:  notificationState(n),
				})
			}
			if jsonOutput {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fprintf(out, "Notification ledger is empty\n")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					fmt.Sprintf("%d", v.Index), v.Row, v.Date, v.Whom, truncate(v.Text, 40), titleCase.String(v.State),
				})
			}
			fprintf(out, "%s\n", renderTable(notificationColumns, rows))
			if last, ok := notify.LastNotified(notes); ok {
				fprintf(out, "Last sent: %s to %s (%s)\n", last.Date.Format(dates), last.Whom, last.Status)
			}
			if next, ok := notify.NextUpcoming(notes); ok {
				fprintf(out, "Next due: %s to %s\n", next.Date.Format(dates), next.Whom)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newNotifyImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Replace the configured ledger with the entries of a CSV ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := commandContextOf(cmd)
			source := notify.NewCSVLedger(strings.TrimSpace(args[0]), cfg.Timeline.FiveDigitYears)
			entries, err := source.Load(runCtx)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			svc, ledger, err := notify.Open(runCtx, cfg, logging.NewNop())
			if err != nil {
				return err
			}
			defer ledger.Close()
			replaced := len(svc.Notifications())

			if err := notify.Import(runCtx, ledger, entries); err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Imported %d notifications into %s (replaced %d)\n", len(entries), cfg.Notify.DataFile, replaced)
			return nil
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
