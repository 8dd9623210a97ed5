package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateNav(); err != nil {
		return err
	}
	if err := c.validateEventBar(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTimeline() error {
	t := c.Timeline
	if len(t.Sections) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("timeline.sections must list at least one section. Edit %s (create with 'longview config init')", defaultPath)
	}
	if err := ensurePositiveMap(map[string]int{
		"timeline.interval_pixels":   t.IntervalPixels,
		"timeline.resolution_months": t.ResolutionMonths,
		"timeline.min_bar_width":     t.MinBarWidth,
		"timeline.top_frame_height":  t.TopFrameHeight,
	}); err != nil {
		return err
	}
	if t.LeftMargin < 0 {
		return errors.New("timeline.left_margin must be >= 0")
	}
	if t.NowBarWidth < 0 {
		return errors.New("timeline.now_bar_width must be >= 0")
	}
	if t.LabelResolution != LabelYears && t.LabelResolution != LabelMonths {
		return fmt.Errorf("timeline.label_resolution must be %q or %q", LabelYears, LabelMonths)
	}
	if strings.TrimSpace(t.DataFile) == "" {
		return errors.New("timeline.data_file must be set")
	}
	for i, section := range t.Sections {
		if section.Start == "" {
			return fmt.Errorf("timeline.sections[%d].start must be set", i)
		}
		if section.End == "" {
			return fmt.Errorf("timeline.sections[%d].end must be set (a date or %q)", i, OngoingEnd)
		}
		if section.MonthsPerAnchor <= 0 {
			return fmt.Errorf("timeline.sections[%d].months_per_anchor must be positive", i)
		}
	}
	for i, cell := range t.NavCells {
		if cell.Date == "" {
			return fmt.Errorf("timeline.nav_cells[%d].date must be set", i)
		}
		switch cell.Location {
		case "", "top", "bottom":
		default:
			return fmt.Errorf("timeline.nav_cells[%d].location must be top or bottom", i)
		}
	}
	for i, image := range t.StaticImages {
		if image.Src == "" || image.Dest == "" {
			return fmt.Errorf("timeline.static_images[%d] needs src and dest", i)
		}
		if strings.ContainsAny(image.Dest, `/\`) {
			return fmt.Errorf("timeline.static_images[%d].dest must be a file name", i)
		}
	}
	return validateColors(map[string]string{
		"timeline.now_bar_color":            t.NowBarColor,
		"timeline.background_stipple_color": t.BackgroundStippleColor,
	})
}

func (c *Config) validateNav() error {
	if err := ensurePositiveMap(map[string]int{
		"nav.ideal_pixels_per_cell": c.Nav.IdealPixelsPerCell,
		"nav.cell_width":            c.Nav.CellWidth,
		"nav.cell_height":           c.Nav.CellHeight,
	}); err != nil {
		return err
	}
	if c.Nav.MinCells < 2 {
		return errors.New("nav.min_cells must be >= 2")
	}
	if c.Nav.MaxCells < c.Nav.MinCells {
		return errors.New("nav.max_cells must be >= nav.min_cells")
	}
	return nil
}

func (c *Config) validateEventBar() error {
	e := c.EventBar
	if err := ensurePositiveMap(map[string]int{
		"event_bar.height":        e.Height,
		"event_bar.diamond_width": e.DiamondWidth,
	}); err != nil {
		return err
	}
	if e.DiamondLeftMargin < 0 || e.DiamondVerticalMargin < 0 {
		return errors.New("event_bar diamond margins must be >= 0")
	}
	for key, value := range map[string]float64{
		"event_bar.saturation":          e.Saturation,
		"event_bar.no_vote_ratio":       e.NoVoteRatio,
		"event_bar.missing_posts_ratio": e.MissingPostsRatio,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return validateColors(map[string]string{
		"event_bar.color1":        e.Color1,
		"event_bar.color2":        e.Color2,
		"event_bar.future_color":  e.FutureColor,
		"event_bar.no_color":      e.NoColor,
		"event_bar.yes_color":     e.YesColor,
		"event_bar.no_data_color": e.NoDataColor,
	})
}

func (c *Config) validateNotify() error {
	n := c.Notify
	if !n.Enabled {
		return nil
	}
	if strings.TrimSpace(n.DataFile) == "" {
		return errors.New("notify.data_file must be set when notify.enabled is true")
	}
	switch n.Ledger {
	case LedgerCSV, LedgerSQLite:
	default:
		return fmt.Errorf("notify.ledger must be %q or %q", LedgerCSV, LedgerSQLite)
	}
	switch n.Sender {
	case SenderSMTP:
		if n.From == "" {
			return errors.New("notify.from must be set when notify.sender is smtp")
		}
	case SenderNtfy:
		if n.NtfyTopic == "" {
			return errors.New("notify.ntfy_topic must be set when notify.sender is ntfy")
		}
	case SenderNone:
	default:
		return fmt.Errorf("notify.sender must be one of %q, %q, %q", SenderSMTP, SenderNtfy, SenderNone)
	}
	if n.RequestTimeout <= 0 {
		return errors.New("notify.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func validateColors(values map[string]string) error {
	for key, value := range values {
		if !hexColorPattern.MatchString(value) {
			return fmt.Errorf("%s must be a hex colour like #aabbcc (got %q)", key, value)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
