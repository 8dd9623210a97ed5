package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"longview/internal/dataset"
	"longview/internal/interest"
	"longview/internal/layout"
	"longview/internal/logging"
	"longview/internal/lvdate"
	"longview/internal/navcells"
	"longview/internal/notify"
	"longview/internal/render"
)

// Plan is every input of a build, resolved and placed. It is built once and
// not modified afterwards.
type Plan struct {
	Now       lvdate.Date
	Layout    *layout.Layout
	Rows      dataset.Rows
	Skipped   []SkippedRow
	Interest  *interest.Table
	Policy    interest.Policy
	Nav       navcells.Plan
	Style     render.Style
	Templates render.TemplatePack
	// Notifications is the delivery report; zero when nothing was delivered.
	Notifications notify.Report
}

// SkippedRow is a row left out because its dates fall outside the layout.
type SkippedRow struct {
	ID     string
	Reason string
}

// Site returns the renderer input for the plan.
func (p *Plan) Site() *render.Site {
	return &render.Site{
		Layout:    p.Layout,
		Rows:      p.Rows,
		Interest:  p.Interest,
		Policy:    p.Policy,
		Nav:       p.Nav,
		Style:     p.Style,
		Templates: p.Templates,
	}
}

// Prepare reads every input and computes the layout and navigation plan
// without sending notifications or writing output.
func (r *Runner) Prepare(ctx context.Context) (*Plan, error) {
	return r.prepare(ctx, logging.WithContext(ctx, r.logger), false)
}

func (r *Runner) prepare(ctx context.Context, logger *slog.Logger, deliver bool) (*Plan, error) {
	cfg := r.cfg
	now, err := layout.ResolveNow(cfg.Timeline.NowDate, r.clock(), cfg.Timeline.ResolutionMonths)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "layout", "resolve now", "", err)
	}
	logger.Debug("now resolved", logging.Date(now.Format(lvdate.DefaultStyle)))

	rows, err := dataset.LoadFile(cfg.Timeline.DataFile, now)
	if err != nil {
		return nil, Wrap(ErrInput, "load", "data file", cfg.Timeline.DataFile, err)
	}

	report, err := r.attachNotifications(ctx, logger, rows, now, deliver)
	if err != nil {
		return nil, err
	}

	var table *interest.Table
	if cfg.Timeline.InterestFile != "" {
		if table, err = interest.LoadFile(cfg.Timeline.InterestFile); err != nil {
			return nil, Wrap(ErrInput, "load", "interest file", cfg.Timeline.InterestFile, err)
		}
	}

	sections, err := Sections(cfg, now)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "layout", "parse sections", "", err)
	}
	l, err := layout.New(sections, LayoutParams(cfg, now))
	if err != nil {
		return nil, Wrap(ErrConfiguration, "layout", "place sections", "", err)
	}
	if _, err := l.FutureStart(); err != nil {
		return nil, Wrap(ErrConfiguration, "layout", "place now bar", "now must fall inside a section", err)
	}
	logger.Debug("layout computed",
		logging.Int("sections", len(sections)),
		logging.Int("total_width", l.TotalWidth()),
	)

	kept, skipped, err := fitRows(l, rows, logger)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "layout", "place rows", "", err)
	}

	nav, err := r.planNav(l, kept, logger)
	if err != nil {
		return nil, err
	}

	style, err := Style(cfg)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "render", "style", "", err)
	}
	templates, err := render.LoadTemplatePack(cfg.Timeline.TemplateFile)
	if err != nil {
		return nil, Wrap(ErrInput, "load", "template pack", "", err)
	}

	return &Plan{
		Now:           now,
		Layout:        l,
		Rows:          kept,
		Skipped:       skipped,
		Interest:      table,
		Policy:        Policy(cfg),
		Nav:           nav,
		Style:         style,
		Templates:     templates,
		Notifications: report,
	}, nil
}

// attachNotifications delivers due notifications when deliver is set, then
// draws every row-bound ledger entry as a subitem of its row.
func (r *Runner) attachNotifications(ctx context.Context, logger *slog.Logger, rows dataset.Rows, now lvdate.Date, deliver bool) (notify.Report, error) {
	n := r.notifier
	if n == nil {
		if !r.cfg.Notify.Enabled {
			return notify.Report{}, nil
		}
		svc, ledger, err := notify.Open(ctx, r.cfg, logger)
		if err != nil {
			return notify.Report{}, Wrap(ErrNotify, "notify", "open ledger", "", err)
		}
		defer ledger.Close()
		n = svc
	}

	var report notify.Report
	if deliver {
		var err error
		if report, err = notify.Deliver(ctx, n, now, logger); err != nil {
			return report, Wrap(ErrNotify, "notify", "persist ledger", "", err)
		}
	}

	for _, note := range n.Notifications() {
		if note.Row == "" {
			continue
		}
		if err := rows.AttachNotification(note.Row, note.Date, note.Text, note.Status); err != nil {
			return report, Wrap(ErrInput, "notify", "attach", fmt.Sprintf("ledger entry %d", note.Index), err)
		}
	}
	return report, nil
}

// fitRows drops rows and subitems whose dates fall outside every section.
// Any other placement error is structural and returned.
func fitRows(l *layout.Layout, rows dataset.Rows, logger *slog.Logger) (dataset.Rows, []SkippedRow, error) {
	kept := make(dataset.Rows, 0, len(rows))
	var skipped []SkippedRow
	for _, row := range rows {
		if _, err := l.BarWidth(row.Start, row.End); err != nil {
			var rangeErr *layout.DateOutOfRangeError
			if !errors.As(err, &rangeErr) {
				return nil, nil, fmt.Errorf("row %s: %w", row.ID, err)
			}
			logging.WarnWithContext(logger, "row skipped", "row_skipped",
				logging.RowID(row.ID),
				logging.Date(rangeErr.Date.Format(lvdate.DefaultStyle)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "extend timeline.sections or fix the row dates"),
				logging.String(logging.FieldImpact, "row is not drawn"),
			)
			skipped = append(skipped, SkippedRow{ID: row.ID, Reason: err.Error()})
			continue
		}

		subitems := make([]dataset.Subitem, 0, len(row.Subitems))
		for _, sub := range row.Subitems {
			if _, err := l.PixelForDate(sub.Date); err != nil {
				logging.WarnWithContext(logger, "subitem skipped", "subitem_skipped",
					logging.RowID(row.ID),
					logging.Date(sub.Date.Format(lvdate.DefaultStyle)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "marker is not drawn on its bar"),
				)
				continue
			}
			subitems = append(subitems, sub)
		}
		row.Subitems = subitems
		kept = append(kept, row)
	}
	return kept, skipped, nil
}

func (r *Runner) planNav(l *layout.Layout, rows dataset.Rows, logger *slog.Logger) (navcells.Plan, error) {
	spans := make([]navcells.Span, len(rows))
	for i, row := range rows {
		spans[i] = navcells.Span{Start: row.Start, End: row.End}
	}

	manual, err := ManualCells(r.cfg)
	if err != nil {
		return navcells.Plan{}, Wrap(ErrConfiguration, "nav", "parse cells", "", err)
	}
	var plan navcells.Plan
	if manual != nil {
		plan, err = navcells.Manual(l, spans, manual)
	} else {
		plan, err = navcells.Auto(l, spans, NavOptions(r.cfg))
	}
	if err != nil {
		return navcells.Plan{}, Wrap(ErrConfiguration, "nav", "plan cells", "", err)
	}
	for _, w := range plan.Warnings {
		logging.WarnWithContext(logger, "nav cell configuration problem", "navcell_config_warning",
			logging.String("reason", w.Reason),
			logging.String(logging.FieldErrorHint, "mark exactly one [[timeline.nav_cells]] entry with now = true"),
			logging.String(logging.FieldImpact, "navigation strip may not highlight the current period"),
		)
	}
	logger.Debug("navigation planned",
		logging.Int("cells", len(plan.Cells)),
		logging.Int("spacing", plan.Spacing),
		logging.Bool("manual", manual != nil),
	)
	return plan, nil
}
