// Package detector finds the tables on a page and describes each one well
// enough for a caller to pick columns from it.
package detector

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
	"github.com/dtnitsch/web-table-parser/pkg/grid"
	"github.com/dtnitsch/web-table-parser/pkg/session"
	"golang.org/x/net/html"
)

// Options tune a detection pass.
type Options struct {
	Naming grid.NamingRules
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Detect scans doc once, family by family, and returns one entry per
// accepted table. Entry indexes follow scan order and are contiguous.
func Detect(doc *goquery.Selection, opts Options) []session.Entry {
	logger := opts.logger()
	if opts.Naming.MaxHeaderLen == 0 && len(opts.Naming.ControlColumns) == 0 {
		opts.Naming = grid.DefaultNaming
	}

	var (
		entries []session.Entry
		roots   []*html.Node
	)

	for _, fam := range dialect.Families {
		fam.Candidates(doc).Each(func(_ int, cand *goquery.Selection) {
			n := cand.Get(0)
			if registered(roots, n, fam.SkipRegistered) {
				logger.Debug("Skipping candidate inside a registered table", "family", fam.Dialect.String())
				return
			}

			d := dialect.Classify(cand)
			e, ok := detectOne(logger, cand, d, len(entries), opts.Naming)
			if !ok {
				return
			}
			e.Root = session.Handle(n)
			entries = append(entries, e)
			roots = append(roots, n)
		})
	}

	logger.Info("Detection finished", "tables", len(entries))
	return entries
}

// registered reports whether n is already a table root. With overlap set, a
// candidate inside or around a registered root counts too.
func registered(roots []*html.Node, n *html.Node, overlap bool) bool {
	for _, r := range roots {
		if r == n {
			return true
		}
		if overlap && (dom.Within(r, n) || dom.Within(n, r)) {
			return true
		}
	}
	return false
}

func detectOne(logger *slog.Logger, root *goquery.Selection, d dialect.Dialect, index int, naming grid.NamingRules) (session.Entry, bool) {
	layout := grid.For(d)
	tbl := layout.Locate(root)

	cols := tbl.Columns(naming)
	if len(cols.Names) == 0 {
		logger.Debug("No columns found", "dialect", d.String(), "header_strategy", tbl.HeaderStrategy)
		return session.Entry{}, false
	}

	rows, rowStrategy := tbl.CountRows()
	if layout.RequireDataRow && rows == 0 {
		logger.Debug("No data rows found", "dialect", d.String())
		return session.Entry{}, false
	}

	logger.Debug("Table detected",
		"index", index,
		"dialect", d.String(),
		"header_strategy", tbl.HeaderStrategy,
		"header_cell_strategy", tbl.HeaderCellStrategy,
		"row_count_strategy", rowStrategy,
		"columns", len(cols.Names),
		"rows", rows,
	)

	return session.Entry{
		Index:         index,
		Dialect:       d,
		Columns:       cols.Names,
		ColumnIndices: cols.Indices,
		RowCount:      rows,
		HasHeader:     tbl.HeaderCells.Length() > 0,
	}, true
}

// Infos converts registry entries to their wire form.
func Infos(entries []session.Entry) []models.TableInfo {
	out := make([]models.TableInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.TableInfo{
			Index:         e.Index,
			Type:          e.Dialect.String(),
			Columns:       e.Columns,
			ColumnIndices: e.ColumnIndices,
			Rows:          e.RowCount,
			HasHeader:     e.HasHeader,
		})
	}
	return out
}
