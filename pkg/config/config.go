package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// RemoteOptions configures the remote data service client.
type RemoteOptions struct {
	BaseURL   string `yaml:"baseUrl"`
	APIKey    string `yaml:"apiKey"`
	DebugHTTP bool   `yaml:"debugHttp"`
}

// Config holds the application configuration.
type Config struct {
	DatabasePath         string        `yaml:"databasePath"`
	Remote               RemoteOptions `yaml:"remote"`
	ProbeIntervalSeconds int           `yaml:"probeIntervalSeconds"`
}

// Default returns the configuration used when no config file exists yet.
func Default() *Config {
	return &Config{
		DatabasePath:         filepath.Join(".", "vista85.db"),
		ProbeIntervalSeconds: 30,
	}
}

// ProbeInterval returns how often the connectivity monitor probes the remote.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// Load loads the configuration from the specified YAML file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.ProbeIntervalSeconds <= 0 {
		cfg.ProbeIntervalSeconds = 30
	}

	return cfg, nil
}

// LoadOrCreate loads the configuration, writing a default config file first
// when none exists at the given path.
func LoadOrCreate(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	dir := filepath.Dir(configPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating config directory: %w", err)
		}
	}

	cfg = Default()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating default config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, fmt.Errorf("error writing default config: %w", err)
	}

	return cfg, nil
}

// RemoteBaseURL returns the remote base URL or an error when it is unset.
func (c *Config) RemoteBaseURL() (string, error) {
	if c.Remote.BaseURL == "" {
		return "", fmt.Errorf("remote base URL not set in configuration")
	}
	return c.Remote.BaseURL, nil
}
