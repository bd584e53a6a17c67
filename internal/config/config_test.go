package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Calculator.Variant != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[calculator]
variant = "scientific"

[history]
last = 20

[server]
addr = ":9090"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Calculator.Variant == nil || *cfg.Calculator.Variant != "scientific" {
		t.Fatalf("unexpected variant %v", cfg.Calculator.Variant)
	}
	if cfg.History.Last == nil || *cfg.History.Last != 20 {
		t.Fatalf("unexpected last %v", cfg.History.Last)
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr %v", cfg.Server.Addr)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" || cfg.Log.File != nil {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[calculator]\ntheme = \"dark\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "calculator.theme") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("XDG_CONFIG_HOME", "/conf")
	if got := DefaultDBPath(); got != filepath.Join("/data", "calcdeck", "calcdeck.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "calcdeck", "calcdeck.log") {
		t.Fatalf("unexpected log path %q", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/conf", "calcdeck", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
}
