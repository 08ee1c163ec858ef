package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CARDEDITOR_DATA_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(dir, "cardeditor.db") {
		t.Errorf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.MaxHistory != 100 || cfg.AutosaveSchedule != "@every 30s" || !cfg.WatchFiles {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yml := "environment: dev\nmax_history: 20\nautosave_schedule: \"*/5 * * * *\"\nwatch_files: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CARDEDITOR_DATA_DIR", dir)
	t.Setenv("CARDEDITOR_MAX_HISTORY", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Environment != "dev" || cfg.AutosaveSchedule != "*/5 * * * *" || cfg.WatchFiles {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MaxHistory != 5 {
		t.Errorf("env should override file, got %d", cfg.MaxHistory)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad environment", func(c *Config) { c.Environment = "staging" }},
		{"negative history", func(c *Config) { c.MaxHistory = -1 }},
		{"bad schedule", func(c *Config) { c.AutosaveSchedule = "every now and then" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default(t.TempDir()).Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestInvalidEnv(t *testing.T) {
	t.Setenv("CARDEDITOR_DATA_DIR", t.TempDir())
	t.Setenv("CARDEDITOR_WATCH_FILES", "sometimes")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad boolean")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default(t.TempDir())
	log := cfg.NewLogger(&buf)
	log.Debug("hidden")
	log.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected log output %q", out)
	}
}
