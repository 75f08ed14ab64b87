// Package config provides configuration file support for the flaglog CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the flaglog configuration.
type Config struct {
	Directory  string            `yaml:"directory"`
	LogFile    string            `yaml:"log_file"`
	KeyFile    string            `yaml:"key_file,omitempty"`
	Components []ComponentConfig `yaml:"components"`
	Remote     RemoteConfig      `yaml:"remote,omitempty"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ComponentConfig describes one tracked component.
type ComponentConfig struct {
	Label string `yaml:"label"`
	Kind  string `yaml:"kind,omitempty"` // value, image, audio
}

// RemoteConfig configures the optional remote dataset target.
type RemoteConfig struct {
	Dataset      string `yaml:"dataset,omitempty"`
	Organization string `yaml:"organization,omitempty"`
	Private      bool   `yaml:"private,omitempty"`
	HubURL       string `yaml:"hub_url,omitempty"`
	TokenEnv     string `yaml:"token_env,omitempty"` // env var holding the access token
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Directory: "flagged",
		LogFile:   "log.csv",
		Components: []ComponentConfig{
			{Label: "input", Kind: "value"},
			{Label: "output", Kind: "value"},
		},
		Remote: RemoteConfig{
			TokenEnv: "FLAGLOG_TOKEN",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the given path.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil // No config file is OK, use defaults
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the given path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
