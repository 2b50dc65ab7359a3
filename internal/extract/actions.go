package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/bridge"
	"github.com/dtnitsch/web-table-parser/pkg/db"
	"github.com/dtnitsch/web-table-parser/pkg/export"
	"github.com/dtnitsch/web-table-parser/pkg/extractor"
	"github.com/dtnitsch/web-table-parser/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Options are the extract command's flags.
type Options struct {
	Selection        string
	IncludeHeaders   bool
	SkipFirstDataRow bool
	Format           export.Format
}

// Outcome is what one extraction produced.
type Outcome struct {
	Title    string
	Response models.Response
}

// lastExtraction remembers the id of the extraction it recorded so the
// export path can be attached afterwards.
type lastExtraction struct {
	*db.DB
	id int64
}

func (r *lastExtraction) RecordExtraction(pageURL string, req models.Request, res models.Response) (int64, error) {
	id, err := r.DB.RecordExtraction(pageURL, req, res)
	r.id = id
	return id, err
}

// ExtractAction detects the tables on one page, extracts the selected
// columns and writes them in the requested format.
func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return cli.Exit("extract takes exactly one page. Usage: wtp extract <url-or-file> --select 0:1,2", 1)
	}
	sources, invalid := common.SanitizeSources(c.Args().Slice())
	if len(invalid) > 0 || len(sources) != 1 {
		return cli.Exit(fmt.Sprintf("malformed page address: %s", c.Args().First()), 1)
	}

	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	opts := Options{
		Selection:        c.String("select"),
		IncludeHeaders:   c.Bool("headers"),
		SkipFirstDataRow: c.Bool("skip-first"),
		Format:           format,
	}

	engine, err := common.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	h, err := engine.Open(c.Context, sources[0])
	if err != nil {
		return err
	}

	var rec *lastExtraction
	if !c.Bool("no-history") {
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		rec = &lastExtraction{DB: database}
		h.Recorder = rec
	}

	outcome, err := Run(c.Context, h, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, outcome.Response.Data, opts.IncludeHeaders); err != nil {
		return err
	}

	out := c.String("out")
	if out == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	store := storage.New(cfg.OutputDir)
	name := out
	if name == "" {
		name = storage.ExportName(outcome.Title, time.Now(), format.Ext())
	}
	if store.HasFile(name) {
		logger.Warn("Overwriting existing export", "file", name)
	}
	path, err := store.SaveFile(name, buf.Bytes())
	if err != nil {
		return err
	}
	if rec != nil && rec.id > 0 {
		if err := rec.SetExportPath(rec.id, path); err != nil {
			logger.Warn("Failed to record export path", "error", err)
		}
	}

	reportFaults(logger, outcome.Response.Faults)
	size := int64(buf.Len())
	if stats, err := store.GetFileStats(name); err == nil {
		size = stats.SizeBytes
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d rows (%d bytes) to %s\n", len(outcome.Response.Data), size, path)
	return nil
}

// Run detects tables through h, resolves opts.Selection against them and
// extracts the selected columns.
func Run(ctx context.Context, h *bridge.Handler, opts Options) (Outcome, error) {
	det := h.Handle(ctx, models.Request{Action: models.ActionDetectTables})
	if err := common.Fail(det); err != nil {
		return Outcome{}, err
	}
	if len(det.Tables) == 0 {
		return Outcome{}, fmt.Errorf("no tables found on %s", common.PageURL(h))
	}

	entries, _, err := h.Session.Snapshot()
	if err != nil {
		return Outcome{}, err
	}
	mask, err := extractor.ParseSelection(opts.Selection, entries)
	if err != nil {
		return Outcome{}, err
	}

	resp := h.Handle(ctx, models.Request{
		Action:           models.ActionExtractTableData,
		SelectedColumns:  mask,
		IncludeHeaders:   opts.IncludeHeaders,
		SkipFirstDataRow: opts.SkipFirstDataRow,
	})
	if err := common.Fail(resp); err != nil {
		return Outcome{}, err
	}

	title := ""
	if det.Page != nil {
		title = det.Page.Title
	}
	return Outcome{Title: title, Response: resp}, nil
}

func reportFaults(logger *slog.Logger, faults []models.TableFault) {
	for _, f := range faults {
		logger.Warn("Table skipped", "table", f.Table, "error", f.Error)
	}
}
