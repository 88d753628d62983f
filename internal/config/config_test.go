package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Backend != "badger" {
		t.Errorf("Ledger.Backend = %q, want %q", cfg.Ledger.Backend, "badger")
	}
	if cfg.Observability.LogLevel != "info" || cfg.Observability.LogFormat != "text" {
		t.Errorf("Observability = %+v", cfg.Observability)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir is empty")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
data_dir: /var/lib/heliograph
ledger:
  backend: sqlite
  config:
    path: /var/lib/heliograph/ledger.db
observability:
  log_level: debug
  log_format: json
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/heliograph" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Ledger.Backend != "sqlite" || cfg.Ledger.Config["path"] != "/var/lib/heliograph/ledger.db" {
		t.Errorf("Ledger = %+v", cfg.Ledger)
	}
	if cfg.Observability.LogLevel != "debug" || cfg.Observability.LogFormat != "json" {
		t.Errorf("Observability = %+v", cfg.Observability)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a named missing file succeeded")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HELIOGRAPH_LEDGER_BACKEND", "memory")
	t.Setenv("HELIOGRAPH_OBSERVABILITY_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Backend != "memory" {
		t.Errorf("Ledger.Backend = %q, want %q", cfg.Ledger.Backend, "memory")
	}
	if cfg.Observability.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.Observability.LogLevel, "warn")
	}
}
