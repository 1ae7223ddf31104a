// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Engine   EngineConfig   `toml:"engine"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds window and clock settings.
type ScheduleConfig struct {
	Hours         int    `toml:"hours"`          // window span in whole hours
	TickInterval  string `toml:"tick_interval"`  // e.g., "60s"
	RolloverAfter string `toml:"rollover_after"` // e.g., "60m"
}

// EngineConfig holds reconciliation loop settings.
type EngineConfig struct {
	Strict       bool `toml:"strict"`        // reject states that break an invariant
	NoticeBuffer int  `toml:"notice_buffer"` // notices kept for late readers
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      int      `toml:"rate_limit"` // requests per minute per IP
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte", "light"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Hours:         4,
			TickInterval:  "60s",
			RolloverAfter: "60m",
		},
		Engine: EngineConfig{
			Strict:       false,
			NoticeBuffer: 32,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8710",
			AllowedOrigins: []string{"*"},
			RateLimit:      240,
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Debug: false,
			Dir:   defaultLogDir(),
		},
	}
}

// defaultLogDir returns the default log directory.
func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "tenmin")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tenmin", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Expand paths
	cfg.Log.Dir = expandPath(cfg.Log.Dir)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Schedule overrides
	if v := os.Getenv("TENMIN_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TENMIN_HOURS: %w", err)
		}
		cfg.Schedule.Hours = n
	}
	if v := os.Getenv("TENMIN_TICK_INTERVAL"); v != "" {
		cfg.Schedule.TickInterval = v
	}
	if v := os.Getenv("TENMIN_ROLLOVER_AFTER"); v != "" {
		cfg.Schedule.RolloverAfter = v
	}

	// Engine overrides
	if v := os.Getenv("TENMIN_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TENMIN_STRICT: %w", err)
		}
		cfg.Engine.Strict = b
	}

	// Server overrides
	if v := os.Getenv("TENMIN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TENMIN_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	// UI overrides
	if v := os.Getenv("TENMIN_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// Log overrides
	if v := os.Getenv("TENMIN_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("TENMIN_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TENMIN_DEBUG: %w", err)
		}
		cfg.Log.Debug = b
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Schedule.Hours < 1 || c.Schedule.Hours > 24 {
		return fmt.Errorf("hours must be between 1 and 24, got %d", c.Schedule.Hours)
	}
	if _, err := parsePositiveDuration(c.Schedule.TickInterval, "tick_interval"); err != nil {
		return err
	}
	if _, err := parsePositiveDuration(c.Schedule.RolloverAfter, "rollover_after"); err != nil {
		return err
	}

	if c.Engine.NoticeBuffer < 0 {
		return errors.New("notice_buffer cannot be negative")
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("addr must be host:port, got %q", c.Server.Addr)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin must be configured")
	}
	if c.Server.RateLimit < 1 {
		return errors.New("rate_limit must be positive")
	}

	if c.Log.Dir == "" {
		return errors.New("log dir must be set")
	}
	return nil
}

// parsePositiveDuration parses a Go duration string that must be > 0.
func parsePositiveDuration(s, field string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like \"60s\", got %q", field, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, s)
	}
	return d, nil
}

// TickInterval returns the parsed tick interval.
// Call Validate first; an invalid value yields zero.
func (c *Config) TickInterval() time.Duration {
	d, _ := parsePositiveDuration(c.Schedule.TickInterval, "tick_interval")
	return d
}

// RolloverAfter returns the parsed rollover threshold.
// Call Validate first; an invalid value yields zero.
func (c *Config) RolloverAfter() time.Duration {
	d, _ := parsePositiveDuration(c.Schedule.RolloverAfter, "rollover_after")
	return d
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
