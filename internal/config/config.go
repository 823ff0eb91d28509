// Package config provides YAML-based configuration loading for MinMind.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level MinMind configuration, loaded from
// ~/.minmind/config.yaml. Every field has a usable default; the file is
// optional.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`
	// PlansDir is the directory scanned by `mm todo sync`.
	PlansDir string `yaml:"plans_dir"`
	// PlanPattern is the glob matched against plan file names.
	PlanPattern string `yaml:"plan_pattern"`
	// PythonDir is the directory containing the minmind Python package
	// used for article extraction and summarization.
	PythonDir string `yaml:"python_dir"`
	// Provider is the default AI provider for summarization.
	Provider string `yaml:"provider"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".minmind", "config.yaml")
	}
	return filepath.Join(home, ".minmind", "config.yaml")
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = "~/.minmind/minmind.db"
	}
	if c.PlansDir == "" {
		c.PlansDir = "plans"
	}
	if c.PlanPattern == "" {
		c.PlanPattern = "*.md"
	}
	if c.Provider == "" {
		c.Provider = "anthropic"
	}
}

// validate checks that all fields are usable.
func (c *Config) validate() error {
	var errs []string
	if strings.ContainsAny(c.PlanPattern, "/\\") {
		errs = append(errs, "plan_pattern must not contain path separators")
	}
	switch c.Provider {
	case "anthropic", "openai", "ollama", "custom":
	default:
		errs = append(errs, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
