package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8000" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Pipeline.StepDuration.Std() != 30*time.Second {
		t.Errorf("step_duration = %v", cfg.Pipeline.StepDuration.Std())
	}
	if cfg.Catalog.Timeout.Std() != 10*time.Second {
		t.Errorf("catalog timeout = %v", cfg.Catalog.Timeout.Std())
	}
	if cfg.Jobs.MaxJobs != 0 {
		t.Errorf("max_jobs = %d, want unlimited", cfg.Jobs.MaxJobs)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
catalog:
  base_url: https://cube.example.org/api/v1
  timeout: 3s
  max_retries: 1
pipeline:
  step_duration: 5s
jobs:
  max_jobs: 100
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Catalog.BaseURL != "https://cube.example.org/api/v1" {
		t.Errorf("base_url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Pipeline.StepDuration.Std() != 5*time.Second {
		t.Errorf("step_duration = %v", cfg.Pipeline.StepDuration.Std())
	}
	if cfg.Jobs.MaxJobs != 100 {
		t.Errorf("max_jobs = %d", cfg.Jobs.MaxJobs)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "listen_addr: \":7000\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Catalog.Timeout.Std() != 10*time.Second {
		t.Errorf("catalog timeout lost its default: %v", cfg.Catalog.Timeout.Std())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "listne_addr: \":7000\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "pipeline:\n  step_duration: thirty\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestEnvOverridesListenAddr(t *testing.T) {
	t.Setenv("CHRIS_MCP_ADDR", ":6060")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":6060" {
		t.Errorf("listen_addr = %q, want env override", cfg.ListenAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
