// Package config loads and persists the querydeck configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the persistent application configuration, stored as TOML at
// <dataDir>/config.toml.
type Config struct {
	Server  ServerConfig `toml:"server"`
	Exports ExportConfig `toml:"exports"`
	UI      UIConfig     `toml:"ui"`
}

// ServerConfig describes how to reach the search service.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ExportConfig controls where result downloads land.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	Theme      string `toml:"theme"`
	ShowDebug  bool   `toml:"show_debug"`
	DateFormat string `toml:"date_format"`
}

// Timeout returns the configured request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Default returns sensible defaults. The exports directory defaults to a
// subdirectory of dataDir so a fresh install writes nothing outside it.
func Default(dataDir string) *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8480",
			TimeoutSeconds: 15,
		},
		Exports: ExportConfig{
			Dir: filepath.Join(dataDir, "exports"),
		},
		UI: UIConfig{
			Theme:      "dark",
			DateFormat: "2006-01-02 15:04",
		},
	}
}

// Load reads the config from dataDir, falling back to defaults when the
// file does not exist. A malformed file is an error; silently ignoring it
// would mask typos in hand-edited config.
func Load(dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(filepath.Join(dataDir, "config.toml"))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		cfg.Server.TimeoutSeconds = 15
	}
	return cfg, nil
}

// Save writes the config to dataDir/config.toml.
func (c *Config) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
