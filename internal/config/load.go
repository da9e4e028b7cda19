package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Input.Scale < 0 {
		return fmt.Errorf("%w: input.scale must not be negative, got %g", ErrInvalid, c.Input.Scale)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1, got %d", ErrInvalid, c.Batch.Workers)
	}
	if c.Batch.Pattern != "" {
		if _, err := filepath.Match(c.Batch.Pattern, ""); err != nil {
			return fmt.Errorf("%w: batch.pattern %q: %v", ErrInvalid, c.Batch.Pattern, err)
		}
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./meshtool.yaml",
		filepath.Join(ConfigDir(), "meshtool.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "halfmesh")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "halfmesh")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "halfmesh")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "halfmesh")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
