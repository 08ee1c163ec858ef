// Package config loads editor settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CARDEDITOR_"

type Config struct {
	Environment string `yaml:"environment"`
	DataDir     string `yaml:"data_dir"`
	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`

	// MaxHistory caps undo snapshots per tab.
	MaxHistory int `yaml:"max_history"`

	// AutosaveSchedule is a cron spec; empty disables autosave.
	AutosaveSchedule string `yaml:"autosave_schedule"`

	// WatchFiles reports external changes to opened .crd files.
	WatchFiles bool `yaml:"watch_files"`

	// MCPAddr is the listen address of the in-app MCP endpoint; empty
	// disables it. Headless mode always serves stdio.
	MCPAddr string `yaml:"mcp_addr"`
}

// Default returns the built-in settings for the given data directory.
func Default(dataDir string) *Config {
	return &Config{
		Environment:      "prod",
		DataDir:          dataDir,
		DBPath:           filepath.Join(dataDir, "cardeditor.db"),
		LogLevel:         "info",
		MaxHistory:       100,
		AutosaveSchedule: "@every 30s",
		WatchFiles:       true,
	}
}

// DefaultDataDir is ~/.local/share/cardeditor.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cardeditor")
}

// Load builds the configuration: defaults, then $DATA_DIR/config.yaml when
// present, then CARDEDITOR_* environment variables.
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", DefaultDataDir())
	cfg := Default(dataDir)

	path := getEnv("CONFIG", filepath.Join(dataDir, "config.yaml"))
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "cardeditor.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.AutosaveSchedule = getEnv("AUTOSAVE", c.AutosaveSchedule)
	c.MCPAddr = getEnv("MCP_ADDR", c.MCPAddr)

	if v := getEnv("MAX_HISTORY", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_HISTORY: %w", EnvPrefix, err)
		}
		c.MaxHistory = n
	}
	if v := getEnv("WATCH_FILES", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sWATCH_FILES: %w", EnvPrefix, err)
		}
		c.WatchFiles = b
	}
	return nil
}

// Validate checks field ranges and the autosave schedule syntax.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.MaxHistory, validation.Min(0)),
		validation.Field(&c.AutosaveSchedule, validation.By(validSchedule)),
	)
}

func validSchedule(value interface{}) error {
	spec, _ := value.(string)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return validation.NewError("validation_cron", "must be a valid cron schedule")
	}
	return nil
}

// NewLogger returns a JSON slog logger writing to w at the configured level.
// dev environments log at debug regardless of LogLevel.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if c.Environment == "dev" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}
