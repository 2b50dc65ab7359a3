// Package common holds the setup shared by the wtp commands: logging,
// configuration and source handling.
package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/grid"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger. --quiet wins over --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	return newLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))
}

func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch {
	case quiet:
		logLevel = slog.LevelError
	case verbose:
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config and applies command-line overrides.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.DatabasePath = c.String("db")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.Bool("refresh") {
		cfg.Refresh = true
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.WorkerCount)
	}
	return cfg, nil
}

// NamingRules merges the config's header naming settings over the engine
// defaults.
func NamingRules(cfg *models.Config) grid.NamingRules {
	rules := grid.DefaultNaming
	if cfg.MaxHeaderLength > 0 {
		rules.MaxHeaderLen = cfg.MaxHeaderLength
	}
	if len(cfg.ControlColumns) > 0 {
		rules.ControlColumns = cfg.ControlColumns
	}
	if len(cfg.AriaBoilerplate) > 0 {
		rules.AriaBoilerplate = cfg.AriaBoilerplate
	}
	return rules
}

// AnnotateOverrides converts the config's per-dialect annotate map.
func AnnotateOverrides(cfg *models.Config) (map[dialect.Dialect]bool, error) {
	if len(cfg.Annotate) == 0 {
		return nil, nil
	}
	out := make(map[dialect.Dialect]bool, len(cfg.Annotate))
	for name, on := range cfg.Annotate {
		d, err := dialect.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid annotate entry: %w", err)
		}
		out[d] = on
	}
	return out, nil
}
