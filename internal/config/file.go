package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML file layout. Only fields the file sets override
// the environment.
type FileConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Storage struct {
		DataDir      string `yaml:"data_dir"`
		DownloadsDir string `yaml:"downloads_dir"`
		DesktopDir   string `yaml:"desktop_dir"`
		ExportDir    string `yaml:"export_dir"`
	} `yaml:"storage"`

	Scheduler struct {
		// TickInterval is a Go duration string, e.g. "5s".
		TickInterval string `yaml:"tick_interval"`
	} `yaml:"scheduler"`

	API struct {
		ListenAddr     string `yaml:"listen_addr"`
		AuthMode       string `yaml:"auth_mode"`
		APIKey         string `yaml:"api_key"`
		RateLimitRPS   int    `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
		CORSOrigins    string `yaml:"cors_origins"`
	} `yaml:"api"`

	Notify struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"notify"`
}

// applyFile overlays the YAML file at path onto the config.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := c.applyFileBytes(raw); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// applyFileBytes parses a YAML overlay from bytes (useful for testing).
func (c *Config) applyFileBytes(data []byte) error {
	// Expand environment variables in the YAML before parsing.
	expanded := expandEnvVars(string(data))

	var fc FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return err
	}

	if fc.Environment != "" {
		c.Environment = fc.Environment
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Storage.DataDir != "" {
		c.DataDir = fc.Storage.DataDir
	}
	if fc.Storage.DownloadsDir != "" {
		c.DownloadsDir = fc.Storage.DownloadsDir
	}
	if fc.Storage.DesktopDir != "" {
		c.DesktopDir = fc.Storage.DesktopDir
	}
	if fc.Storage.ExportDir != "" {
		c.ExportDir = fc.Storage.ExportDir
	}
	if fc.Scheduler.TickInterval != "" {
		d, err := time.ParseDuration(fc.Scheduler.TickInterval)
		if err != nil {
			return fmt.Errorf("scheduler.tick_interval: %w", err)
		}
		c.TickInterval = d
	}
	if fc.API.ListenAddr != "" {
		c.ListenAddr = fc.API.ListenAddr
	}
	if fc.API.AuthMode != "" {
		c.AuthMode = fc.API.AuthMode
	}
	if fc.API.APIKey != "" {
		c.APIKey = fc.API.APIKey
	}
	if fc.API.RateLimitRPS > 0 {
		c.RateLimitRPS = fc.API.RateLimitRPS
	}
	if fc.API.RateLimitBurst > 0 {
		c.RateLimitBurst = fc.API.RateLimitBurst
	}
	if fc.API.CORSOrigins != "" {
		c.CORSOrigins = fc.API.CORSOrigins
	}
	if fc.Notify.Buffer > 0 {
		c.NotifyBuffer = fc.Notify.Buffer
	}
	return nil
}

// envVarPattern matches ${VAR_NAME} and $VAR_NAME.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars replaces ${VAR} and $VAR with the corresponding environment
// variable value. Missing vars are replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR} or $VAR.
		name := strings.TrimPrefix(match, "${")
		name = strings.TrimSuffix(name, "}")
		name = strings.TrimPrefix(name, "$")
		return os.Getenv(name)
	})
}
