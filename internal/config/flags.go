package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags holds the global command-line overrides
type Flags struct {
	ConfigPath string
	LogPath    string
	LogLevel   string
	Timeout    time.Duration
	Command    string
}

// Register adds the global flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "netquality.yaml", "YAML configuration file")
	fs.StringVar(&f.LogPath, "log", "", "CSV measurement log (overrides log_path)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Speed test timeout (overrides speedtest.timeout_seconds)")
	fs.StringVar(&f.Command, "speedtest", "", "Speed test executable (overrides speedtest.command)")
}

// Load reads the configuration file, applies the flags that were set on the
// command line and validates the result
func (f *Flags) Load(fs *pflag.FlagSet) (Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if fs.Changed("log") {
		cfg.LogPath = f.LogPath
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if fs.Changed("timeout") {
		cfg.Speedtest.TimeoutSeconds = int(f.Timeout.Round(time.Second) / time.Second)
	}
	if fs.Changed("speedtest") {
		cfg.Speedtest.Command = f.Command
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
