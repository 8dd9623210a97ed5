package preflight

import (
	"context"
	"path/filepath"

	"longview/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckReadableFile("Data file", cfg.Timeline.DataFile))
	if cfg.Timeline.InterestFile != "" {
		results = append(results, CheckReadableFile("Interest file", cfg.Timeline.InterestFile))
	}
	if cfg.Timeline.TemplateFile != "" {
		results = append(results, CheckReadableFile("Template file", cfg.Timeline.TemplateFile))
	}
	if cfg.Paths.PrototypeDir != "" {
		results = append(results, CheckReadableDirectory("Prototype directory", cfg.Paths.PrototypeDir))
	}

	// The output directory may not exist yet; its parent must accept the stage.
	results = append(results, CheckDirectoryAccess("Output parent", filepath.Dir(cfg.Paths.OutputDir)))

	if cfg.Notify.Enabled {
		if cfg.Notify.Ledger == config.LedgerCSV {
			results = append(results, CheckReadableFile("Notification file", cfg.Notify.DataFile))
		}
		switch cfg.Notify.Sender {
		case config.SenderSMTP:
			results = append(results, CheckSMTP(ctx, cfg.Notify.SMTPServer))
		case config.SenderNtfy:
			results = append(results, CheckNtfy(ctx, cfg.Notify.NtfyTopic, cfg.Notify.NtfyToken))
		}
	}

	return results
}
