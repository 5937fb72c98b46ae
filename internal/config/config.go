// Package config loads daemon configuration from environment variables,
// optionally overlaid with a YAML file named by STANDBY_CONFIG_FILE.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage. Empty directories fall back to the platform defaults
	// resolved by the store package.
	DataDir      string `envconfig:"STANDBY_DATA_DIR"`
	DownloadsDir string `envconfig:"STANDBY_DOWNLOADS_DIR"`
	DesktopDir   string `envconfig:"STANDBY_DESKTOP_DIR"`
	ExportDir    string `envconfig:"STANDBY_EXPORT_DIR"`

	// Scheduler
	TickInterval time.Duration `envconfig:"STANDBY_TICK_INTERVAL" default:"5s"`

	// API. The daemon binds loopback by default; widening the listen
	// address is expected to come with an auth mode.
	ListenAddr     string `envconfig:"STANDBY_LISTEN_ADDR" default:"127.0.0.1:8745"`
	AuthMode       string `envconfig:"STANDBY_AUTH_MODE" default:"none"`
	APIKey         string `envconfig:"STANDBY_API_KEY"`
	RateLimitRPS   int    `envconfig:"STANDBY_RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int    `envconfig:"STANDBY_RATE_LIMIT_BURST" default:"100"`
	CORSOrigins    string `envconfig:"STANDBY_CORS_ORIGINS"`

	// Notifications
	NotifyBuffer int `envconfig:"STANDBY_NOTIFY_BUFFER" default:"16"`

	// ConfigFile is an optional YAML file whose set fields override the
	// environment.
	ConfigFile string `envconfig:"STANDBY_CONFIG_FILE"`
}

// AuthEnabled returns true if API requests must carry a key.
func (c *Config) AuthEnabled() bool {
	return c.AuthMode == "api-key"
}

// Load reads configuration from environment variables and applies the
// YAML overlay when one is configured.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
