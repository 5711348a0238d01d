// Package config provides YAML-based configuration for netatmo-cli.
// Configuration is loaded with a layered precedence: defaults → YAML file → env vars.
// Environment variables always win.
//
// File search order:
//  1. --config CLI flag (explicit path)
//  2. NETATMO_CLI_CONFIG environment variable
//  3. ~/.netatmo-cli/config.yaml
//  4. ./netatmo-cli.yaml
//
// If no file is found the CLI runs entirely from env vars.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables understood by netatmo-cli.
const (
	EnvConfig          = "NETATMO_CLI_CONFIG"
	EnvStateDB         = "NETATMO_CLI_STATE_DB"
	EnvRequiredVersion = "NETATMO_CLI_REQUIRED_VERSION"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// Config is the top-level YAML configuration structure.
type Config struct {
	// RequiredVersion is a semver constraint the binary must satisfy, e.g. ">= 1.2".
	RequiredVersion string `yaml:"required_version"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// State configures the local run ledger.
	State StateConfig `yaml:"state"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is the log output format: json, text.
	Format string `yaml:"format"`
}

// StateConfig holds run ledger settings.
type StateConfig struct {
	// DBPath is the SQLite database path. Set to "disabled" to disable.
	DBPath string `yaml:"db_path"`
}

// envMapping maps YAML config fields to their corresponding env var names.
// Only non-empty YAML values are applied; env vars always take precedence.
var envMapping = []struct {
	envKey string
	value  func(*Config) string
}{
	{EnvRequiredVersion, func(c *Config) string { return c.RequiredVersion }},
	{EnvLogLevel, func(c *Config) string { return c.Logging.Level }},
	{EnvLogFormat, func(c *Config) string { return c.Logging.Format }},
	{EnvStateDB, func(c *Config) string { return c.State.DBPath }},
}

// Load reads a YAML config file and applies non-empty values as environment
// variables. Existing env vars are never overwritten (env always wins).
// Returns the path that was loaded, or empty string if no file was found.
// An explicitly named file that cannot be found is an error.
func Load(explicitPath string, log *slog.Logger) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
	}

	path := resolveConfigPath(explicitPath)
	if path == "" {
		log.Debug("config: no YAML config file found, using env vars only")
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applied := 0
	for _, m := range envMapping {
		yamlVal := m.value(&cfg)
		if yamlVal == "" {
			continue
		}
		if os.Getenv(m.envKey) != "" {
			continue // env var already set — do not override
		}
		if err := os.Setenv(m.envKey, yamlVal); err != nil {
			return "", fmt.Errorf("config: set %s: %w", m.envKey, err)
		}
		applied++
	}

	log.Info("config: loaded YAML config",
		slog.String("path", path),
		slog.Int("keys_applied", applied),
	)

	return path, nil
}

// resolveConfigPath returns the first config file path that exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, ".netatmo-cli", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("netatmo-cli.yaml"); err == nil {
		return "netatmo-cli.yaml"
	}

	return ""
}
