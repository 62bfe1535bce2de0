package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.URL != "http://localhost:3000" {
		t.Errorf("expected default url, got %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Server.Timeout)
	}
	if cfg.List.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", cfg.List.PageSize)
	}
	if cfg.List.DepsLimit != 500 {
		t.Errorf("expected deps limit 500, got %d", cfg.List.DepsLimit)
	}
	if cfg.UI.StartRoute != "#/list" {
		t.Errorf("expected start route '#/list', got %q", cfg.UI.StartRoute)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	t.Setenv(EnvURL, "")
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.List.PageSize != 50 {
		t.Errorf("expected default config, got page size %d", cfg.List.PageSize)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	t.Setenv(EnvURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
server:
  url: http://tasks.internal:8080
  timeout: 5s
list:
  page_size: 25
  lookup_concurrency: 4
ui:
  start_route: "#/board?swimlane=role"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.URL != "http://tasks.internal:8080" {
		t.Errorf("unexpected url %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Server.Timeout)
	}
	if cfg.List.PageSize != 25 || cfg.List.LookupConcurrency != 4 {
		t.Errorf("unexpected list config %+v", cfg.List)
	}
	// Unset keys keep their defaults
	if cfg.List.DepsLimit != 500 {
		t.Errorf("expected default deps limit, got %d", cfg.List.DepsLimit)
	}
	if cfg.UI.StartRoute != "#/board?swimlane=role" {
		t.Errorf("unexpected start route %q", cfg.UI.StartRoute)
	}
}

func TestLoadFrom_OutOfRangeFallsBack(t *testing.T) {
	t.Setenv(EnvURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "list:\n  page_size: 1000\n  deps_limit: -1\nserver:\n  url: '  '\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.List.PageSize != 50 || cfg.List.DepsLimit != 500 {
		t.Errorf("expected defaults, got %+v", cfg.List)
	}
	if cfg.Server.URL != "http://localhost:3000" {
		t.Errorf("expected default url, got %q", cfg.Server.URL)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("list: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvOverridesURL(t *testing.T) {
	t.Setenv(EnvURL, "http://env:9000")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  url: http://file:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.URL != "http://env:9000" {
		t.Errorf("expected env url, got %q", cfg.Server.URL)
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv(EnvURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.List.PageSize = 10
	cfg.UI.StartRoute = "#/overview"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.List.PageSize != 10 || got.UI.StartRoute != "#/overview" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/taskpeek" {
		t.Errorf("expected /tmp/xdg/taskpeek, got %q", got)
	}
	if got := ConfigPath(); got != "/tmp/xdg/taskpeek/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
}
