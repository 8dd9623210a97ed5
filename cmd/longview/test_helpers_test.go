package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
}

const testRows = `1,2000,2010,http://example.com/1,"First bet",Alice,Bob
2,1990,2005,,Too early
3,2015,?,,Still running
`

// setupCLITestEnv writes a config with one decade section from 2000 to
// 2040, now fixed at 2020, and a small data file beside it.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	writeFile(t, filepath.Join(base, "data.csv"), testRows)
	configPath := filepath.Join(base, "longview.toml")
	writeFile(t, configPath, `[timeline]
title = "Test Bets"
now_date = "2020"
data_file = "data.csv"

[[timeline.sections]]
start = "2000"
end = "2040"
months_per_anchor = 120

[notify]
sender = "none"
`+extra+`
[paths]
output_dir = "site/html"
log_dir = ""
`)
	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		outputDir:  filepath.Join(base, "site", "html"),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
