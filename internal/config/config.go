// Package config loads remotesim settings from a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cxd309/remotesim/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config contains all remotesim settings.
type Config struct {
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Replay  ReplayConfig  `json:"replay" yaml:"replay"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// LoggingConfig configures operational logging on stderr.
type LoggingConfig struct {
	// Level is one of "warn", "info" (default), "debug" or "trace".
	// "trace" logs a line per tick.
	Level string `json:"level" yaml:"level"`
}

// ReplayConfig configures the replay store.
type ReplayConfig struct {
	// Path is the SQLite database runs are recorded to and verified against.
	// Empty disables recording unless a path is given on the command line.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// OutputConfig configures how the simulation log is written.
type OutputConfig struct {
	Pretty bool `json:"pretty" yaml:"pretty"`
}

// Default returns a Config with defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REMOTESIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REMOTESIM_REPLAY_PATH"); v != "" {
		cfg.Replay.Path = v
	}
	if v := os.Getenv("REMOTESIM_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Output.Pretty = b
		}
	}
}
