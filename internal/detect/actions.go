package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/pkg/bridge"
	"github.com/dtnitsch/web-table-parser/pkg/db"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// DetectAction lists the tables on one or more pages.
func DetectAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	sources := c.Args().Slice()
	if c.IsSet("urls") {
		sources = append(sources, strings.Split(c.String("urls"), ",")...)
	}
	sources, invalid := common.SanitizeSources(sources)
	if len(invalid) > 0 {
		return fmt.Errorf("%d URL(s) are malformed even after cleanup: %s", len(invalid), strings.Join(invalid, ", "))
	}
	if len(sources) == 0 {
		return cli.Exit("no pages given. Usage: wtp detect <url-or-file>... or wtp detect --urls a,b", 1)
	}

	engine, err := common.NewEngine(cfg, logger)
	if err != nil {
		return err
	}

	var recorder bridge.Recorder
	if !c.Bool("no-history") {
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		recorder = database
	}

	results := run(c.Context, logger, engine, recorder, sources, min(cfg.WorkerCount, len(sources)))

	if err := writeResults(os.Stdout, c.String("format"), results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed == len(results) {
		return cli.Exit(fmt.Sprintf("detection failed for all %d page(s)", failed), 2)
	}
	return nil
}

func writeResults(w io.Writer, format string, results []Result) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "yaml", "":
		out, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("unknown output format %q (want yaml or json)", format)
}
