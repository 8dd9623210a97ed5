package workflow

import (
	"fmt"
	"image/color"

	"longview/internal/config"
	"longview/internal/interest"
	"longview/internal/layout"
	"longview/internal/lvdate"
	"longview/internal/navcells"
	"longview/internal/render"
)

// LayoutParams converts the timeline geometry settings.
func LayoutParams(cfg *config.Config, now lvdate.Date) layout.Params {
	t := cfg.Timeline
	return layout.Params{
		LeftMargin:       t.LeftMargin,
		IntervalPixels:   t.IntervalPixels,
		ResolutionMonths: t.ResolutionMonths,
		MinBarWidth:      t.MinBarWidth,
		NowBarWidth:      t.NowBarWidth,
		Now:              now,
	}
}

// Sections parses the configured sections. An "ongoing" end resolves to
// two anchors past now.
func Sections(cfg *config.Config, now lvdate.Date) ([]layout.Section, error) {
	sections := make([]layout.Section, 0, len(cfg.Timeline.Sections))
	for i, s := range cfg.Timeline.Sections {
		start, err := lvdate.Parse(s.Start)
		if err != nil {
			return nil, fmt.Errorf("timeline.sections[%d].start: %w", i, err)
		}
		var end lvdate.Date
		if s.IsOngoing() {
			end = layout.OngoingSectionEnd(now, s.MonthsPerAnchor)
		} else if end, err = lvdate.Parse(s.End); err != nil {
			return nil, fmt.Errorf("timeline.sections[%d].end: %w", i, err)
		}
		sections = append(sections, layout.Section{Start: start, End: end, MonthsPerAnchor: s.MonthsPerAnchor})
	}
	return sections, nil
}

// NavOptions converts the automatic navigation bounds.
func NavOptions(cfg *config.Config) navcells.Options {
	return navcells.Options{
		IdealPixelsPerCell: cfg.Nav.IdealPixelsPerCell,
		MinCells:           cfg.Nav.MinCells,
		MaxCells:           cfg.Nav.MaxCells,
	}
}

// ManualCells parses [[timeline.nav_cells]]. It returns nil when none are
// configured, which selects automatic placement.
func ManualCells(cfg *config.Config) ([]navcells.Cell, error) {
	if len(cfg.Timeline.NavCells) == 0 {
		return nil, nil
	}
	cells := make([]navcells.Cell, 0, len(cfg.Timeline.NavCells))
	for i, c := range cfg.Timeline.NavCells {
		date, err := lvdate.Parse(c.Date)
		if err != nil {
			return nil, fmt.Errorf("timeline.nav_cells[%d].date: %w", i, err)
		}
		location, err := navcells.ParseLocation(c.Location)
		if err != nil {
			return nil, fmt.Errorf("timeline.nav_cells[%d]: %w", i, err)
		}
		cells = append(cells, navcells.Cell{Date: date, Now: c.Now, Location: location})
	}
	return cells, nil
}

// Policy converts the interest colour policy.
func Policy(cfg *config.Config) interest.Policy {
	return interest.Policy{
		NoVoteRatio:       cfg.EventBar.NoVoteRatio,
		MissingPostsRatio: cfg.EventBar.MissingPostsRatio,
	}
}

// DateStyle is the anchor and label style selected by five_digit_years and
// label_resolution.
func DateStyle(cfg *config.Config) lvdate.Style {
	style := lvdate.DefaultStyle
	style.FiveDigitYears = cfg.Timeline.FiveDigitYears
	style.WithMonth = cfg.Timeline.LabelResolution == config.LabelMonths
	return style
}

// Style converts every visual setting. Colours were validated with the
// config, so a parse failure here means the config was built by hand.
func Style(cfg *config.Config) (render.Style, error) {
	e := cfg.EventBar
	style := render.Style{
		Title:       cfg.Timeline.Title,
		Pretitle:    cfg.Timeline.Pretitle,
		BarHeight:   e.Height,
		Saturation:  e.Saturation,
		NowBarOnTop: e.NowBarOnTop,
		Diamond: render.Diamond{
			Width:          e.DiamondWidth,
			LeftMargin:     e.DiamondLeftMargin,
			VerticalMargin: e.DiamondVerticalMargin,
		},
		NavCellWidth:   cfg.Nav.CellWidth,
		NavCellHeight:  cfg.Nav.CellHeight,
		TopFrameHeight: cfg.Timeline.TopFrameHeight,
		Dates:          DateStyle(cfg),
	}
	for _, c := range []struct {
		key   string
		value string
		set   func(v string) error
	}{
		{"event_bar.color1", e.Color1, hexInto(&style.Color1)},
		{"event_bar.color2", e.Color2, hexInto(&style.Color2)},
		{"event_bar.future_color", e.FutureColor, hexInto(&style.FutureColor)},
		{"event_bar.no_color", e.NoColor, hexInto(&style.NoColor)},
		{"event_bar.yes_color", e.YesColor, hexInto(&style.YesColor)},
		{"event_bar.no_data_color", e.NoDataColor, hexInto(&style.NoDataColor)},
		{"timeline.now_bar_color", cfg.Timeline.NowBarColor, hexInto(&style.NowBarColor)},
		{"timeline.background_stipple_color", cfg.Timeline.BackgroundStippleColor, hexInto(&style.StippleColor)},
	} {
		if err := c.set(c.value); err != nil {
			return render.Style{}, fmt.Errorf("%s: %w", c.key, err)
		}
	}
	return style, nil
}

func hexInto(dst *color.RGBA) func(string) error {
	return func(v string) error {
		c, err := render.ParseHex(v)
		if err != nil {
			return err
		}
		*dst = c
		return nil
	}
}
