package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize(baseDir string) error {
	if err := c.normalizePaths(baseDir); err != nil {
		return err
	}
	if err := c.normalizeTimeline(baseDir); err != nil {
		return err
	}
	c.normalizeEventBar()
	if err := c.normalizeNotify(baseDir); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths(baseDir string) error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPathFrom(baseDir, c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.PrototypeDir, err = expandPathFrom(baseDir, c.Paths.PrototypeDir); err != nil {
		return fmt.Errorf("paths.prototype_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPathFrom(baseDir, c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTimeline(baseDir string) error {
	t := &c.Timeline
	t.Title = strings.TrimSpace(t.Title)
	t.Pretitle = strings.TrimSpace(t.Pretitle)
	t.NowDate = strings.TrimSpace(t.NowDate)
	t.LabelResolution = strings.ToLower(strings.TrimSpace(t.LabelResolution))
	if t.LabelResolution == "" {
		t.LabelResolution = LabelYears
	}
	t.NowBarColor = normalizeColor(t.NowBarColor)
	t.BackgroundStippleColor = normalizeColor(t.BackgroundStippleColor)
	if t.BackgroundStippleColor == "" {
		t.BackgroundStippleColor = defaultStippleColor
	}

	var err error
	if t.DataFile, err = expandPathFrom(baseDir, t.DataFile); err != nil {
		return fmt.Errorf("timeline.data_file: %w", err)
	}
	if t.InterestFile, err = expandPathFrom(baseDir, t.InterestFile); err != nil {
		return fmt.Errorf("timeline.interest_file: %w", err)
	}
	if t.TemplateFile, err = expandPathFrom(baseDir, t.TemplateFile); err != nil {
		return fmt.Errorf("timeline.template_file: %w", err)
	}
	for i := range t.StaticImages {
		if t.StaticImages[i].Src, err = expandPathFrom(baseDir, t.StaticImages[i].Src); err != nil {
			return fmt.Errorf("timeline.static_images[%d].src: %w", i, err)
		}
		t.StaticImages[i].Dest = strings.TrimSpace(t.StaticImages[i].Dest)
	}
	for i := range t.Sections {
		t.Sections[i].Start = strings.TrimSpace(t.Sections[i].Start)
		t.Sections[i].End = strings.TrimSpace(t.Sections[i].End)
	}
	for i := range t.NavCells {
		t.NavCells[i].Date = strings.TrimSpace(t.NavCells[i].Date)
		t.NavCells[i].Location = strings.ToLower(strings.TrimSpace(t.NavCells[i].Location))
	}
	return nil
}

func (c *Config) normalizeEventBar() {
	e := &c.EventBar
	for _, color := range []*string{&e.Color1, &e.Color2, &e.FutureColor, &e.NoColor, &e.YesColor, &e.NoDataColor} {
		*color = normalizeColor(*color)
	}
}

func (c *Config) normalizeNotify(baseDir string) error {
	n := &c.Notify
	n.Ledger = strings.ToLower(strings.TrimSpace(n.Ledger))
	if n.Ledger == "" {
		n.Ledger = LedgerCSV
	}
	n.Sender = strings.ToLower(strings.TrimSpace(n.Sender))
	if n.Sender == "" {
		n.Sender = SenderSMTP
	}
	n.From = strings.TrimSpace(n.From)
	n.SMTPServer = strings.TrimSpace(n.SMTPServer)
	if n.SMTPServer == "" {
		n.SMTPServer = defaultSMTPServer
	}
	n.Subject = strings.TrimSpace(n.Subject)
	if n.Subject == "" {
		n.Subject = defaultNotifySubject
	}
	n.NtfyTopic = strings.TrimSpace(n.NtfyTopic)
	if n.SMTPPassword == "" {
		if value, ok := os.LookupEnv("LONGVIEW_SMTP_PASSWORD"); ok {
			n.SMTPPassword = strings.TrimSpace(value)
		}
	}
	if n.NtfyToken == "" {
		if value, ok := os.LookupEnv("LONGVIEW_NTFY_TOKEN"); ok {
			n.NtfyToken = strings.TrimSpace(value)
		}
	}
	var err error
	if n.DataFile, err = expandPathFrom(baseDir, n.DataFile); err != nil {
		return fmt.Errorf("notify.data_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeColor(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value != "" && !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	return value
}
