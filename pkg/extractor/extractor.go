// Package extractor reads the selected columns of registered tables into a
// row matrix.
package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/cell"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/grid"
	"github.com/dtnitsch/web-table-parser/pkg/session"
)

// ErrDialectChanged is a per-table fault: the root no longer classifies as
// the dialect it was registered with.
var ErrDialectChanged = errors.New("table changed type since detection")

// Options tune an extraction.
type Options struct {
	Naming grid.NamingRules
	// Annotate overrides the per-dialect default for appending link and
	// image targets to cell text.
	Annotate map[dialect.Dialect]bool
	BaseURL  *url.URL
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) annotate(l *grid.Layout) bool {
	if v, ok := o.Annotate[l.Dialect]; ok {
		return v
	}
	return l.Annotate
}

// Result is the concatenated matrix of every selected table plus the tables
// that failed.
type Result struct {
	Data   [][]string
	Faults []models.TableFault
}

// Extract reads the tables named in req.SelectedColumns, in ascending table
// index order. Every selected root is checked before any traversal: a root
// that is gone fails the whole request with session.ErrStale. Errors inside
// one table are isolated into Result.Faults.
func Extract(doc *goquery.Document, entries []session.Entry, req models.Request, opts Options) (Result, error) {
	logger := opts.logger()
	if opts.Naming.MaxHeaderLen == 0 && len(opts.Naming.ControlColumns) == 0 {
		opts.Naming = grid.DefaultNaming
	}

	byIndex := make(map[int]session.Entry, len(entries))
	for _, e := range entries {
		byIndex[e.Index] = e
	}

	type job struct {
		entry session.Entry
		root  *goquery.Selection
		cols  []int
	}
	var jobs []job
	for _, t := range req.SelectedColumns.Tables() {
		e, ok := byIndex[t]
		if !ok {
			logger.Warn("Selected table is not registered, skipping", "table", t)
			continue
		}
		n, ok := e.Resolve(doc.Get(0))
		if !ok {
			return Result{}, fmt.Errorf("table %d is no longer on the page: %w", t, session.ErrStale)
		}
		jobs = append(jobs, job{entry: e, root: doc.FindNodes(n), cols: req.SelectedColumns.Columns(t)})
	}

	res := Result{Data: [][]string{}}
	for _, j := range jobs {
		rows, err := extractTable(j.root, j.entry, j.cols, req, opts)
		if err != nil {
			logger.Error("Table extraction failed", "table", j.entry.Index, "error", err)
			res.Faults = append(res.Faults, models.TableFault{Table: j.entry.Index, Error: err.Error()})
			continue
		}
		logger.Debug("Table extracted", "table", j.entry.Index, "rows", len(rows))
		res.Data = append(res.Data, rows...)
	}
	return res, nil
}

func extractTable(root *goquery.Selection, e session.Entry, cols []int, req models.Request, opts Options) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("panic while extracting table %d: %v", e.Index, r)
		}
	}()

	if d := dialect.Classify(root); d != e.Dialect {
		return nil, fmt.Errorf("%w: registered as %s, now %s", ErrDialectChanged, e.Dialect, d)
	}

	layout := grid.For(e.Dialect)
	tbl := layout.Locate(root)
	resolver := cell.Resolver{BaseURL: opts.BaseURL, Annotate: opts.annotate(layout)}

	if req.IncludeHeaders {
		labels := tbl.Columns(opts.Naming)
		header := make([]string, len(cols))
		for i, c := range cols {
			header[i] = labels.HeaderLabel(c)
		}
		rows = append(rows, header)
	}

	tbl.Rows.Each(func(_ int, row *goquery.Selection) {
		cells := layout.RowCells(row)
		values := make([]string, len(cols))
		blank := true
		for i, c := range cols {
			values[i] = resolver.Resolve(cells.Eq(c))
			if strings.TrimSpace(values[i]) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, values)
		}
	})

	if req.SkipFirstDataRow {
		rows = skipFirstDataRow(rows, req.IncludeHeaders)
	}
	return rows, nil
}

// skipFirstDataRow drops the row right after the header when there is one,
// and the first row otherwise.
func skipFirstDataRow(rows [][]string, withHeader bool) [][]string {
	if withHeader {
		if len(rows) > 1 {
			return append(rows[:1:1], rows[2:]...)
		}
		return rows
	}
	if len(rows) > 0 {
		return rows[1:]
	}
	return rows
}
