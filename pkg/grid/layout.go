// Package grid describes, per dialect, where a table keeps its header, its
// rows and its cells. Detection and extraction both go through the same
// Layout value, so they always agree on which physical cell a column index
// points at.
package grid

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/cascade"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

// Scope is the input of the row cascade: the table root and the header
// container found inside it, which may be empty.
type Scope struct {
	Root   *goquery.Selection
	Header *goquery.Selection
}

// Counter is one row-count strategy. A zero count is a miss.
type Counter struct {
	Name  string
	Count func(Scope) int
}

// Layout is the full set of lookup cascades for one dialect.
type Layout struct {
	Dialect dialect.Dialect

	HeaderContainer []cascade.Strategy[*goquery.Selection]
	HeaderCells     []cascade.Strategy[*goquery.Selection]
	Rows            []cascade.Strategy[Scope]
	Cells           []cascade.Strategy[*goquery.Selection]
	RowCount        []Counter

	// TitleSelectors locate the element carrying a header cell's label, in
	// preference order. TitleIsCell uses the header cell's own full text
	// instead.
	TitleSelectors []string
	TitleIsCell    bool
	FieldAttrs     []string

	// Annotate appends link and image targets to cell text.
	Annotate bool
	// RequireDataRow rejects tables without a single data row.
	RequireDataRow bool
}

var layouts = map[dialect.Dialect]*Layout{
	dialect.PlainTable:      plainLayout,
	dialect.MUIDataGrid:     muiLayout,
	dialect.AGGrid:          agLayout,
	dialect.GenericAriaGrid: ariaLayout,
}

// For returns the layout of d. Every dialect has one.
func For(d dialect.Dialect) *Layout {
	return layouts[d]
}

// Table is a root resolved against its layout.
type Table struct {
	Layout      *Layout
	Root        *goquery.Selection
	Header      *goquery.Selection
	HeaderCells *goquery.Selection
	Rows        *goquery.Selection

	HeaderStrategy     string
	HeaderCellStrategy string
	RowStrategy        string
}

// Locate runs the header, header-cell and row cascades of l under root. A
// miss leaves the corresponding selection empty.
func (l *Layout) Locate(root *goquery.Selection) *Table {
	root = root.First()
	t := &Table{
		Layout:      l,
		Root:        root,
		Header:      dom.None(root),
		HeaderCells: dom.None(root),
	}

	if hc := cascade.First(root, l.HeaderContainer); hc.Found() {
		t.Header = hc.Sel.First()
		t.HeaderStrategy = hc.Name
		if cells := cascade.First(t.Header, l.HeaderCells); cells.Found() {
			t.HeaderCells = cells.Sel
			t.HeaderCellStrategy = cells.Name
		}
	}

	rows := cascade.First(Scope{Root: root, Header: t.Header}, l.Rows)
	t.Rows = rows.Sel
	if t.Rows == nil {
		t.Rows = dom.None(root)
	}
	t.RowStrategy = rows.Name

	return t
}

// RowCells returns the cells of row through the cell cascade, in physical
// column order.
func (l *Layout) RowCells(row *goquery.Selection) *goquery.Selection {
	if cells := cascade.First(row, l.Cells); cells.Found() {
		return cells.Sel
	}
	return dom.None(row)
}

// CellAt returns the cell of row at physical column index col, or an empty
// selection.
func (l *Layout) CellAt(row *goquery.Selection, col int) *goquery.Selection {
	if col < 0 {
		return dom.None(row)
	}
	return l.RowCells(row).Eq(col)
}

// CountRows runs the row-count cascade and reports the winning strategy.
func (t *Table) CountRows() (int, string) {
	scope := Scope{Root: t.Root, Header: t.Header}
	for _, c := range t.Layout.RowCount {
		if n := c.Count(scope); n > 0 {
			return n, c.Name
		}
	}
	return 0, ""
}

func find(selector string) func(*goquery.Selection) *goquery.Selection {
	return func(scope *goquery.Selection) *goquery.Selection {
		return scope.Find(selector)
	}
}

func children(scope *goquery.Selection) *goquery.Selection {
	return dom.ElementChildren(scope)
}

// selfOrFind matches selector against scope itself before its descendants.
func selfOrFind(scope *goquery.Selection, selector string) *goquery.Selection {
	if self := scope.Filter(selector); self.Length() > 0 {
		return self
	}
	return scope.Find(selector)
}

func countOf(rows func(Scope) *goquery.Selection) func(Scope) int {
	return func(s Scope) int {
		if sel := rows(s); sel != nil {
			return sel.Length()
		}
		return 0
	}
}
