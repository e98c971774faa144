package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCLIRun(t *testing.T) {
	code := run([]string{
		"-number", "4",
		"-minimum", "1e-6",
		"-average", "9e-6",
		"-stop", "1e-4",
		"-partitions", "2",
	})
	if code != ExitOK {
		t.Fatalf("exit code %d, want %d", code, ExitOK)
	}
}

func TestCLIRejectsBadParameters(t *testing.T) {
	if code := run([]string{"-number", "1"}); code != ExitConfig {
		t.Fatalf("exit code %d, want %d", code, ExitConfig)
	}
	if code := run([]string{"-remote", "1.5"}); code != ExitConfig {
		t.Fatalf("exit code %d, want %d", code, ExitConfig)
	}
}

func TestCLIConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phold.yaml")
	doc := "number: 4\nminimum: 1.0e-6\naverage: 9.0e-6\nstop: 1.0e-4\npartitions: 2\nremote: 0.5\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if code := run([]string{"-config", path}); code != ExitOK {
		t.Fatalf("exit code %d, want %d", code, ExitOK)
	}
	// Explicit flags override the file.
	if code := run([]string{"-config", path, "-number", "1"}); code != ExitConfig {
		t.Fatalf("override exit code %d, want %d", code, ExitConfig)
	}
	if code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); code != ExitConfig {
		t.Fatalf("missing file exit code %d, want %d", code, ExitConfig)
	}
}
