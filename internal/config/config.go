// Package config loads client settings from an optional YAML file and
// TRIAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServer      = "http://localhost:8000"
	DefaultStrategy    = "smart_balance"
	DefaultTimeout     = 30 * time.Second
	DefaultNotifyDelay = 3 * time.Second
	DefaultBufferFile  = "tasks.json"

	envPrefix = "TRIAGE"
)

type Config struct {
	Server      string             `mapstructure:"server"`
	Strategy    string             `mapstructure:"strategy"`
	Timeout     time.Duration      `mapstructure:"timeout"`
	NotifyDelay time.Duration      `mapstructure:"notify_delay"`
	Buffer      string             `mapstructure:"buffer"`
	LogFile     string             `mapstructure:"log_file"`
	Debug       bool               `mapstructure:"debug"`
	NoColor     bool               `mapstructure:"no_color"`
	Weights     map[string]float64 `mapstructure:"weights"`
}

func Default() *Config {
	return &Config{
		Server:      DefaultServer,
		Strategy:    DefaultStrategy,
		Timeout:     DefaultTimeout,
		NotifyDelay: DefaultNotifyDelay,
		Buffer:      DefaultBufferFile,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/triage/config.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "triage", "config.yaml"), nil
}

// Load reads path (or DefaultPath when empty). A missing default file is not
// an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("server", d.Server)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("notify_delay", d.NotifyDelay)
	v.SetDefault("buffer", d.Buffer)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("no_color", false)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Empty values from the file fall back to defaults.
	if strings.TrimSpace(cfg.Server) == "" {
		cfg.Server = d.Server
	}
	if strings.TrimSpace(cfg.Strategy) == "" {
		cfg.Strategy = d.Strategy
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.NotifyDelay <= 0 {
		cfg.NotifyDelay = d.NotifyDelay
	}
	if strings.TrimSpace(cfg.Buffer) == "" {
		cfg.Buffer = d.Buffer
	}
	return cfg, nil
}
