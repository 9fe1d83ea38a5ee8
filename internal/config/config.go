// Package config holds the file-backed configuration for the repair
// tool: sanitizer tuning knobs, pipeline behavior, and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"jsonmend/internal/sanitize"
)

// Config holds all jsonmend configuration.
type Config struct {
	Sanitizer SanitizerConfig `yaml:"sanitizer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SanitizerConfig tunes the repair strategies and the pipeline.
type SanitizerConfig struct {
	// ValueLookback is the comma-suppression lookback window in bytes.
	ValueLookback int `yaml:"value_lookback"`

	// ContextWindow bounds the stray-token context inspected by the
	// missing-brace heuristic.
	ContextWindow int `yaml:"context_window"`

	// ContinueOnError keeps the pipeline running past a failed strategy.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level"` // debug, info, warn, error
	LogSteps bool   `yaml:"log_steps"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	def := sanitize.DefaultConfig()
	return &Config{
		Sanitizer: SanitizerConfig{
			ValueLookback:   def.ValueLookback,
			ContextWindow:   def.ContextWindow,
			ContinueOnError: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			LogSteps: false,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// when the file does not exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies JSONMEND_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JSONMEND_VALUE_LOOKBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sanitizer.ValueLookback = n
		}
	}
	if v := os.Getenv("JSONMEND_CONTEXT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sanitizer.ContextWindow = n
		}
	}
	if v := os.Getenv("JSONMEND_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JSONMEND_LOG_STEPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.LogSteps = b
		}
	}
}

// SanitizeConfig converts the file representation to the strategy tuning
// struct.
func (c *Config) SanitizeConfig() sanitize.Config {
	return sanitize.Config{
		ValueLookback: c.Sanitizer.ValueLookback,
		ContextWindow: c.Sanitizer.ContextWindow,
	}
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Sanitizer.ValueLookback <= 0 {
		return fmt.Errorf("sanitizer.value_lookback must be positive, got %d", c.Sanitizer.ValueLookback)
	}
	if c.Sanitizer.ContextWindow <= 0 {
		return fmt.Errorf("sanitizer.context_window must be positive, got %d", c.Sanitizer.ContextWindow)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
