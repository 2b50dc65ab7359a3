package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/web-table-parser/internal/cache"
	"github.com/dtnitsch/web-table-parser/internal/detect"
	"github.com/dtnitsch/web-table-parser/internal/extract"
	"github.com/dtnitsch/web-table-parser/internal/history"
	"github.com/dtnitsch/web-table-parser/internal/serve"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	globalFlags := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Value: "wtp.yaml", EnvVars: []string{"WTP_CONFIG"}},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors", EnvVars: []string{"WTP_QUIET"}},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log strategy decisions", EnvVars: []string{"WTP_VERBOSE"}},
		&cli.StringFlag{Name: "db", Usage: "history database path", EnvVars: []string{"WTP_DB"}},
		&cli.StringFlag{Name: "cache-dir", Usage: "directory for cached page HTML", EnvVars: []string{"WTP_CACHE_DIR"}},
		&cli.BoolFlag{Name: "no-history", Usage: "do not record runs in the history database"},
		&cli.BoolFlag{Name: "refresh", Usage: "refetch pages even when a cached copy is fresh"},
	}

	return &cli.App{
		Name:  "wtp",
		Usage: "find tables and data grids in web pages and export their rows",
		Flags: globalFlags,
		Commands: []*cli.Command{
			{
				Name:      "detect",
				Usage:     "list the tables found on one or more pages",
				ArgsUsage: "<url-or-file>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "urls", Usage: "comma-separated pages to scan"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "pages processed in parallel", EnvVars: []string{"WTP_WORKERS"}},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "yaml or json", Value: "yaml"},
				},
				Action: detect.DetectAction,
			},
			{
				Name:      "extract",
				Usage:     "extract selected columns from a page's tables",
				ArgsUsage: "<url-or-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "select", Aliases: []string{"s"}, Usage: `columns per table, e.g. "0:1,2;1:*" (default: everything)`},
					&cli.BoolFlag{Name: "headers", Usage: "emit a header row per table"},
					&cli.BoolFlag{Name: "skip-first", Usage: "drop the first data row of the output"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, tsv, json, yaml or md", Value: "csv"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: `output file name, "-" for stdout (default: named after the page title)`},
					&cli.StringFlag{Name: "output-dir", Usage: "directory for export files", EnvVars: []string{"WTP_OUTPUT_DIR"}},
				},
				Action: extract.ExtractAction,
			},
			{
				Name:      "serve",
				Usage:     "answer JSON requests for one page on stdin/stdout",
				ArgsUsage: "<url-or-file>",
				Action:    serve.ServeAction,
			},
			{
				Name:  "history",
				Usage: "show recorded detections and extractions",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "max entries", Value: 20},
				},
				Action: history.ListAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "show one detection and its tables (default: latest)",
						ArgsUsage: "[detection-id]",
						Action:    history.ShowAction,
					},
					{
						Name:  "extractions",
						Usage: "list extraction runs",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "url", Usage: "only this page"},
							&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "max entries", Value: 20},
						},
						Action: history.ExtractionsAction,
					},
				},
			},
			{
				Name:  "cache",
				Usage: "manage cached page HTML",
				Subcommands: []*cli.Command{
					{
						Name:   "purge",
						Usage:  "remove pages older than the cache TTL",
						Action: cache.PurgeAction,
					},
					{
						Name:      "drop",
						Usage:     "forget the cached copy of the given pages",
						ArgsUsage: "<url>...",
						Action:    cache.DropAction,
					},
				},
			},
		},
	}
}
