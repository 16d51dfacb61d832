// Package main provides the proxherald server CLI.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/red-maple-labs/proxherald/internal/discord"
)

// Config represents the server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logs    LogsConfig    `yaml:"logs"`
	Discord DiscordConfig `yaml:"discord"`
	Verbose bool          `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address        string `yaml:"address"`           // HTTP listen address (default: :6068)
	BaseURL        string `yaml:"base_url"`          // externally visible base URL when behind a proxy
	RateLimitPerIP int    `yaml:"rate_limit_per_ip"` // notify requests per minute per IP
}

// MetricsConfig contains the Prometheus metrics server settings.
type MetricsConfig struct {
	// Enabled is a pointer so an omitted key defaults to true while an
	// explicit "enabled: false" is honored.
	Enabled *bool  `yaml:"enabled"`
	Address string `yaml:"address"` // metrics listen address (default: :9090)
}

// IsEnabled reports whether the metrics server should run.
func (m *MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// LogsConfig contains alert log archive settings.
type LogsConfig struct {
	Directory     string `yaml:"directory"`      // log directory, created if absent
	RetentionDays int    `yaml:"retention_days"` // 0 keeps entries forever
}

// DiscordConfig contains Discord webhook settings.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"` // default webhook, optional
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":6068"
	}
	if c.Server.RateLimitPerIP == 0 {
		c.Server.RateLimitPerIP = 60
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
	if c.Logs.Directory == "" {
		c.Logs.Directory = "./logs"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Logs.Directory == "" {
		return fmt.Errorf("logs.directory is required")
	}
	if c.Logs.RetentionDays < 0 {
		return fmt.Errorf("logs.retention_days must not be negative")
	}
	if c.Server.RateLimitPerIP < 0 {
		return fmt.Errorf("server.rate_limit_per_ip must not be negative")
	}
	// The default webhook is dereferenced over the network, so it gets the
	// same SSRF validation as request-supplied URLs.
	if c.Discord.WebhookURL != "" {
		if err := discord.ValidateWebhookURL(c.Discord.WebhookURL); err != nil {
			return fmt.Errorf("discord.webhook_url: %w", err)
		}
	}
	return nil
}
