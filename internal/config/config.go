package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the network quality collector and its viewers
type Config struct {
	LogPath         string          `yaml:"log_path"`
	IntervalMinutes int             `yaml:"interval_minutes"`
	LogLevel        string          `yaml:"log_level"`
	ReportDir       string          `yaml:"report_dir"`
	Speedtest       SpeedtestConfig `yaml:"speedtest"`
	Web             WebConfig       `yaml:"web"`
}

// SpeedtestConfig describes how the external speed-test utility is invoked
type SpeedtestConfig struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Timeout returns the bounded wait for one speed-test run
func (s SpeedtestConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// WebConfig holds dashboard settings
type WebConfig struct {
	Addr           string  `yaml:"addr"`
	RefreshSeconds int     `yaml:"refresh_seconds"`
	DatabasePath   string  `yaml:"database_path"`
	RateLimit      float64 `yaml:"rate_limit"`
	RateBurst      int     `yaml:"rate_burst"`
}

// RefreshInterval returns how often the dashboard re-reads the log
func (w WebConfig) RefreshInterval() time.Duration {
	return time.Duration(w.RefreshSeconds) * time.Second
}

// Interval returns the pause between two collections
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// DefaultConfig returns the settings used when no configuration file exists
func DefaultConfig() Config {
	return Config{
		LogPath:         "network_log.csv",
		IntervalMinutes: 30,
		LogLevel:        "info",
		ReportDir:       "reports",
		Speedtest: SpeedtestConfig{
			Command:        "speedtest-cli",
			Args:           []string{"--json"},
			TimeoutSeconds: 120,
		},
		Web: WebConfig{
			Addr:           ":8050",
			RefreshSeconds: 60,
			DatabasePath:   "network_index.db",
			RateLimit:      20,
			RateBurst:      40,
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogPath == "" {
		return fmt.Errorf("log path cannot be empty")
	}
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Speedtest.Command == "" {
		return fmt.Errorf("speed test command cannot be empty")
	}
	if c.Speedtest.TimeoutSeconds <= 0 {
		return fmt.Errorf("speed test timeout must be positive")
	}
	if c.Web.RefreshSeconds <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if c.Web.RateLimit <= 0 || c.Web.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive")
	}
	return nil
}
