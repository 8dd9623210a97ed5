package testsupport

import (
	"path/filepath"
	"testing"

	"longview/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// one decade-resolution section covering 2000 to 2040, now fixed at 2020,
// a data file path under the temp dir, and logging to files disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Timeline.NowDate = "2020"
	cfgVal.Timeline.Sections = []config.Section{{Start: "2000", End: "2040", MonthsPerAnchor: 120}}
	cfgVal.Timeline.DataFile = filepath.Join(base, "data.csv")
	cfgVal.Notify.DataFile = filepath.Join(base, "notifications.csv")
	cfgVal.Notify.Sender = config.SenderNone
	cfgVal.Paths.OutputDir = filepath.Join(base, "site", "html")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithNow fixes the timeline's now date.
func WithNow(date string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.NowDate = date
	}
}

// WithSections replaces the configured sections.
func WithSections(sections ...config.Section) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.Sections = sections
	}
}

// WithRows writes a data file holding lines and points the config at it.
func WithRows(lines ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteLines(b.t, b.cfg.Timeline.DataFile, lines...)
	}
}

// WithInterest writes an interest file holding lines and enables it.
func WithInterest(lines ...string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "interest.csv")
		WriteLines(b.t, path, lines...)
		b.cfg.Timeline.InterestFile = path
	}
}

// WithNotifications writes a CSV notification ledger and enables delivery
// through the discard sender.
func WithNotifications(lines ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteLines(b.t, b.cfg.Notify.DataFile, lines...)
		b.cfg.Notify.Enabled = true
		b.cfg.Notify.Ledger = config.LedgerCSV
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Timeline.DataFile)
}
