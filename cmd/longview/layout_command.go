package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"longview/internal/navcells"
	"longview/internal/workflow"
)

type layoutReport struct {
	Now        string          `json:"now"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
	TotalWidth int             `json:"total_width"`
	NowBar     nowBarReport    `json:"now_bar"`
	Sections   []sectionReport `json:"sections"`
	NavCells   []navReport     `json:"nav_cells"`
	NavSpacing int             `json:"nav_spacing"`
	Rows       []rowReport     `json:"rows"`
	Skipped    []skippedReport `json:"skipped,omitempty"`
}

type nowBarReport struct {
	Start        int     `json:"start"`
	Width        int     `json:"width"`
	VirtualWidth float64 `json:"virtual_width"`
}

type sectionReport struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	MonthsPerAnchor int     `json:"months_per_anchor"`
	StartPixel      float64 `json:"start_pixel"`
	PixelsPerMonth  float64 `json:"pixels_per_month"`
}

type navReport struct {
	Date     string `json:"date"`
	Now      bool   `json:"now"`
	Location string `json:"location"`
	Anchor   string `json:"anchor"`
}

type rowReport struct {
	ID       string `json:"id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Pixel    int    `json:"pixel"`
	Width    int    `json:"width"`
	Subitems int    `json:"subitems"`
}

type skippedReport struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func newLayoutCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the computed timeline geometry and navigation plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, logger, err := ctx.runLogger(commandContextOf(cmd), cfg)
			if err != nil {
				return err
			}
			plan, err := workflow.New(cfg, workflow.WithLogger(logger), workflow.WithClock(ctx.clock)).Prepare(runCtx)
			if err != nil {
				return err
			}
			report, err := buildLayoutReport(plan)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printLayoutReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildLayoutReport(plan *workflow.Plan) (layoutReport, error) {
	l := plan.Layout
	dates := plan.Style.Dates
	nowStart, err := l.NowBarStart()
	if err != nil {
		return layoutReport{}, err
	}
	nowWidth, err := l.NowBarWidth()
	if err != nil {
		return layoutReport{}, err
	}
	virtual, err := l.NowBarVirtualWidth()
	if err != nil {
		return layoutReport{}, err
	}

	report := layoutReport{
		Now:        plan.Now.Format(dates),
		Start:      l.Start().Format(dates),
		End:        l.End().Format(dates),
		TotalWidth: l.TotalWidth(),
		NowBar:     nowBarReport{Start: nowStart, Width: nowWidth, VirtualWidth: virtual},
		NavSpacing: plan.Nav.Spacing,
	}
	for _, s := range l.Sections() {
		report.Sections = append(report.Sections, sectionReport{
			Start:           s.Start.Format(dates),
			End:             s.End.Format(dates),
			MonthsPerAnchor: s.MonthsPerAnchor,
			StartPixel:      s.StartPixel,
			PixelsPerMonth:  s.PixelsPerMonth,
		})
	}
	for _, c := range plan.Nav.Cells {
		report.NavCells = append(report.NavCells, navReport{
			Date:     c.Date.Format(dates),
			Now:      c.Now,
			Location: string(c.Location),
			Anchor:   navcells.AnchorName(c, dates),
		})
	}
	for _, row := range plan.Rows {
		x, err := l.PixelForDate(row.Start)
		if err != nil {
			return layoutReport{}, fmt.Errorf("row %s: %w", row.ID, err)
		}
		w, err := l.BarWidth(row.Start, row.End)
		if err != nil {
			return layoutReport{}, fmt.Errorf("row %s: %w", row.ID, err)
		}
		report.Rows = append(report.Rows, rowReport{
			ID:       row.ID,
			Start:    row.Start.Format(dates),
			End:      row.End.Format(dates),
			Pixel:    x,
			Width:    w,
			Subitems: len(row.Subitems),
		})
	}
	for _, s := range plan.Skipped {
		report.Skipped = append(report.Skipped, skippedReport{ID: s.ID, Reason: s.Reason})
	}
	return report, nil
}

func printLayoutReport(cmd *cobra.Command, report layoutReport) {
	out := cmd.OutOrStdout()
	fprintf(out, "%s", heading(out, fmt.Sprintf("Timeline %s - %s", report.Start, report.End)))
	fprintf(out, "Now: %s (x=%s, width %d)\n", report.Now, formatInt(report.NowBar.Start), report.NowBar.Width)
	fprintf(out, "Total width: %s px\n\n", formatInt(report.TotalWidth))

	sections := make([][]string, 0, len(report.Sections))
	for _, s := range report.Sections {
		sections = append(sections, []string{
			s.Start, s.End, fmt.Sprintf("%d", s.MonthsPerAnchor),
			formatInt(int(s.StartPixel + 0.5)), fmt.Sprintf("%.3f", s.PixelsPerMonth),
		})
	}
	fprintf(out, "%s\n\n", renderTable(sectionColumns, sections))

	cells := make([][]string, 0, len(report.NavCells))
	for _, c := range report.NavCells {
		cells = append(cells, []string{c.Date, yesNo(c.Now), c.Location, c.Anchor})
	}
	fprintf(out, "%s", heading(out, fmt.Sprintf("Navigation (%d cells, %d px each)", len(report.NavCells), report.NavSpacing)))
	fprintf(out, "%s\n\n", renderTable(navColumns, cells))

	rows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, []string{r.ID, r.Start, r.End, formatInt(r.Pixel), formatInt(r.Width), fmt.Sprintf("%d", r.Subitems)})
	}
	fprintf(out, "%s\n", renderTable(rowColumns, rows))

	if len(report.Skipped) > 0 {
		ids := make([]string, len(report.Skipped))
		for i, s := range report.Skipped {
			ids[i] = s.ID
		}
		fprintf(out, "\nSkipped rows (outside every section): %s\n", strings.Join(ids, ", "))
	}
}

