package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"longview/internal/config"
)

const minimalConfig = `
[timeline]
title = "Bets"
data_file = "data/bets.csv"
interest_file = "interest.csv"
now_bar_color = "AABBCC"

[[timeline.sections]]
start = "2000"
end = "2010"
months_per_anchor = 12

[[timeline.sections]]
start = "2011"
end = "ongoing"
months_per_anchor = 12

[[timeline.nav_cells]]
date = "2000"
location = "Bottom"
now = true

[paths]
output_dir = "out"
log_dir = ""
`

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "longview.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileRequiresSections(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error without any sections")
	}
	if !strings.Contains(err.Error(), "timeline.sections") {
		t.Fatalf("error should name the key: %v", err)
	}
}

func TestLoadCustomPathResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Timeline.DataFile != filepath.Join(dir, "data", "bets.csv") {
		t.Fatalf("data file = %q", cfg.Timeline.DataFile)
	}
	if cfg.Timeline.InterestFile != filepath.Join(dir, "interest.csv") {
		t.Fatalf("interest file = %q", cfg.Timeline.InterestFile)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Timeline.NowBarColor != "#aabbcc" {
		t.Fatalf("colour not normalized: %q", cfg.Timeline.NowBarColor)
	}
	if !cfg.Timeline.Sections[1].IsOngoing() || cfg.Timeline.Sections[0].IsOngoing() {
		t.Fatalf("ongoing detection wrong: %+v", cfg.Timeline.Sections)
	}
	if cfg.Timeline.NavCells[0].Location != "bottom" || !cfg.Timeline.NavCells[0].Now {
		t.Fatalf("nav cell = %+v", cfg.Timeline.NavCells[0])
	}
	if cfg.Nav != config.Default().Nav {
		t.Fatalf("nav defaults changed: %+v", cfg.Nav)
	}
	if cfg.EventBar.NoVoteRatio != 0.5 || cfg.EventBar.MissingPostsRatio != 0.5 {
		t.Fatalf("ratio defaults = %v, %v", cfg.EventBar.NoVoteRatio, cfg.EventBar.MissingPostsRatio)
	}

	files := cfg.InputFiles()
	if len(files) != 2 || files[0] != cfg.Timeline.DataFile {
		t.Fatalf("InputFiles = %v", files)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(cfg.Paths.OutputDir)); err != nil || !info.IsDir() {
		t.Fatalf("output parent not created: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("output dir should wait for publish, stat err=%v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig+"\n[logging]\nverbosity = 3\n")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestSecretsFromDotEnv(t *testing.T) {
	t.Setenv("LONGVIEW_NTFY_TOKEN", "")
	os.Unsetenv("LONGVIEW_NTFY_TOKEN")
	t.Setenv("LONGVIEW_SMTP_PASSWORD", "from-env")

	dir := t.TempDir()
	path := writeConfig(t, dir, minimalConfig)
	dotenv := "LONGVIEW_NTFY_TOKEN=from-dotenv\nLONGVIEW_SMTP_PASSWORD=ignored\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notify.NtfyToken != "from-dotenv" {
		t.Fatalf("ntfy token = %q", cfg.Notify.NtfyToken)
	}
	if cfg.Notify.SMTPPassword != "from-env" {
		t.Fatalf("environment should win over .env, got %q", cfg.Notify.SMTPPassword)
	}
}

func TestValidateNamesOffendingKey(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.Timeline.Sections = []config.Section{{Start: "2000", End: "2010", MonthsPerAnchor: 12}}
		return cfg
	}
	cases := []struct {
		name   string
		mutate func(*config.Config)
		key    string
	}{
		{"interval", func(c *config.Config) { c.Timeline.IntervalPixels = 0 }, "timeline.interval_pixels"},
		{"months per anchor", func(c *config.Config) { c.Timeline.Sections[0].MonthsPerAnchor = 0 }, "months_per_anchor"},
		{"label resolution", func(c *config.Config) { c.Timeline.LabelResolution = "decades" }, "timeline.label_resolution"},
		{"colour", func(c *config.Config) { c.EventBar.Color1 = "red" }, "event_bar.color1"},
		{"saturation", func(c *config.Config) { c.EventBar.Saturation = 1.5 }, "event_bar.saturation"},
		{"min cells", func(c *config.Config) { c.Nav.MinCells = 1 }, "nav.min_cells"},
		{"max cells", func(c *config.Config) { c.Nav.MaxCells = 1 }, "nav.max_cells"},
		{"nav location", func(c *config.Config) {
			c.Timeline.NavCells = []config.NavCell{{Date: "2000", Location: "middle"}}
		}, "timeline.nav_cells[0].location"},
		{"notify ledger", func(c *config.Config) {
			c.Notify.Enabled = true
			c.Notify.DataFile = "/tmp/n.csv"
			c.Notify.From = "a@example.org"
			c.Notify.Ledger = "xml"
		}, "notify.ledger"},
		{"notify from", func(c *config.Config) {
			c.Notify.Enabled = true
			c.Notify.DataFile = "/tmp/n.csv"
		}, "notify.from"},
		{"ntfy topic", func(c *config.Config) {
			c.Notify.Enabled = true
			c.Notify.DataFile = "/tmp/n.csv"
			c.Notify.Sender = config.SenderNtfy
		}, "notify.ntfy_topic"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"static image", func(c *config.Config) {
			c.Timeline.StaticImages = []config.StaticImage{{Src: "/a.png", Dest: "sub/a.png"}}
		}, "timeline.static_images[0].dest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("base config invalid: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("error %q should mention %q", err.Error(), tc.key)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.Timeline.Sections) != 2 {
		t.Fatalf("sample sections = %d", len(cfg.Timeline.Sections))
	}
	if cfg.Notify.Enabled {
		t.Fatal("sample should leave notifications disabled")
	}
}
