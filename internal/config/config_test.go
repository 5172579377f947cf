package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remotesim.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Replay.Path != "" || cfg.Output.Pretty {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
replay:
  path: runs.db
output:
  pretty: true
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Replay.Path != "runs.db" || !cfg.Output.Pretty {
		t.Errorf("LoadFromFile() = %+v", cfg)
	}
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "output:\n  pretty: true\n"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{"bad yaml", func(t *testing.T) string { return writeConfig(t, "logging: [") }},
		{"bad level", func(t *testing.T) string { return writeConfig(t, "logging:\n  level: loud\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REMOTESIM_LOG_LEVEL", "trace")
	t.Setenv("REMOTESIM_REPLAY_PATH", "/tmp/replay.db")
	t.Setenv("REMOTESIM_PRETTY", "true")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "trace" {
		t.Errorf("Logging.Level = %q, want env override trace", cfg.Logging.Level)
	}
	if cfg.Replay.Path != "/tmp/replay.db" {
		t.Errorf("Replay.Path = %q", cfg.Replay.Path)
	}
	if !cfg.Output.Pretty {
		t.Error("Output.Pretty not overridden")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level == "" {
		t.Error("empty path should still give defaults")
	}
}
