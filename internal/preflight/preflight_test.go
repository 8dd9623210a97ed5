package preflight

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"longview/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(f, []byte("1,2000,2001"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"file", f, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "missing.csv"), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckReadableFile("Data file", tt.path); got.Passed != tt.want {
				t.Fatalf("Passed = %v, want %v (%s)", got.Passed, tt.want, got.Detail)
			}
		})
	}
}

func TestCheckSMTP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	addr := ln.Addr().String()

	if result := CheckSMTP(context.Background(), addr); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	ln.Close()
	if result := CheckSMTP(context.Background(), addr); result.Passed {
		t.Fatal("expected failure once the listener is closed")
	}
	if result := CheckSMTP(context.Background(), ""); result.Passed {
		t.Fatal("expected failure for missing server")
	}
}

func TestCheckNtfy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if result := CheckNtfy(context.Background(), srv.URL+"/longview", "good"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckNtfy(context.Background(), srv.URL+"/longview", "bad"); result.Passed {
		t.Fatal("expected failure for bad token")
	}
	if result := CheckNtfy(context.Background(), "", ""); result.Passed {
		t.Fatal("expected failure for missing topic")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Timeline.DataFile = filepath.Join(dir, "data.csv")
	cfg.Paths.OutputDir = filepath.Join(dir, "html")
	if err := os.WriteFile(cfg.Timeline.DataFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg)
	// data file + output parent
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesNtfyWhenEnabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Timeline.DataFile = filepath.Join(dir, "data.csv")
	cfg.Paths.OutputDir = filepath.Join(dir, "html")
	cfg.Notify.Enabled = true
	cfg.Notify.Ledger = config.LedgerSQLite
	cfg.Notify.Sender = config.SenderNtfy
	cfg.Notify.NtfyTopic = srv.URL + "/topic"

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "ntfy" {
			found = true
			if !r.Passed {
				t.Errorf("ntfy check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected ntfy check in results")
	}
	// The data file was never written.
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "Data file" {
		t.Fatalf("failed = %+v", failed)
	}
}
