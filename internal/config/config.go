// Package config provides configuration types and defaults for paratext.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/paratext/internal/log"
)

// Config holds all configuration options for paratext.
type Config struct {
	StorePath   string      `mapstructure:"store_path"`  // sqlite document store
	Document    string      `mapstructure:"document"`    // document name within the store
	ParamsPath  string      `mapstructure:"params_path"` // yaml parameter set
	AutoRefresh bool        `mapstructure:"auto_refresh"`
	Watch       WatchConfig `mapstructure:"watch"`
	Debug       bool        `mapstructure:"debug"`
}

// WatchConfig holds file watching options for the watch command.
type WatchConfig struct {
	// DebounceMS coalesces rapid file writes into one re-render.
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Validate checks the configuration for errors. Empty values use defaults.
func Validate(cfg Config) error {
	if cfg.Document == "" {
		return fmt.Errorf("document name is required")
	}
	if cfg.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", cfg.Watch.DebounceMS)
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		StorePath:   ".paratext/paratext.db",
		Document:    "default",
		ParamsPath:  ".paratext/params.yaml",
		AutoRefresh: true,
		Watch: WatchConfig{
			DebounceMS: 1000,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Paratext Configuration

# Path to the sqlite document store (default: .paratext/paratext.db)
# store_path: /path/to/paratext.db

# Document name within the store
document: default

# Path to the yaml parameter set
# params_path: .paratext/params.yaml

# Re-render automatically when watched files change (watch command)
auto_refresh: true

# Watch settings
watch:
  debounce_ms: 1000   # Coalesce rapid writes into one re-render

# Verbose logging (same as --debug or PARATEXT_DEBUG=1)
debug: false
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
