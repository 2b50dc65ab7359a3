// Package models defines the wire types of the table bridge and the
// configuration file.
package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config tunes the engine and the CLI. Every field has a default; a config
// file only needs to name what it changes.
type Config struct {
	MaxHeaderLength int             `yaml:"max_header_length"`
	ControlColumns  []string        `yaml:"control_columns"`
	AriaBoilerplate []string        `yaml:"aria_boilerplate"`
	Annotate        map[string]bool `yaml:"annotate"`

	CacheDir     string        `yaml:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	DatabasePath string        `yaml:"database_path"`
	OutputDir    string        `yaml:"output_dir"`
	WorkerCount  int           `yaml:"workers"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Refresh bypasses cached page HTML for this run. Only set from the
	// command line.
	Refresh bool `yaml:"-"`
}

// DefaultConfig returns the settings used when no file is given. Naming
// rules left empty fall back to the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:     "wtp-cache",
		CacheTTL:     time.Hour,
		DatabasePath: "wtp.db",
		OutputDir:    "wtp-results",
		WorkerCount:  4,
		FetchTimeout: 30 * time.Second,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("invalid config %s: workers must be positive, got %d", path, cfg.WorkerCount)
	}
	return cfg, nil
}
