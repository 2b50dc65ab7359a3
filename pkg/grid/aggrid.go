package grid

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/cascade"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

const agCell = `[role="gridcell"], .ag-cell`

func agViewportRows(s Scope) *goquery.Selection {
	return firstPerRowIndex(dom.Outside(s.Root.Find(`[class*="ag-body"]`), s.Header).First().Find(".ag-row"))
}

func agRoleRows(s Scope) *goquery.Selection {
	return firstPerRowIndex(dom.Outside(s.Root.Find(`[role="row"]`), s.Header))
}

// firstPerRowIndex keeps one element per row-index. Pinned columns render a
// logical row as several .ag-row parts sharing the same index; the first part
// stands for the row and agRowParts gathers the rest.
func firstPerRowIndex(rows *goquery.Selection) *goquery.Selection {
	seen := make(map[string]bool)
	return rows.FilterFunction(func(_ int, r *goquery.Selection) bool {
		idx, ok := r.Attr("row-index")
		if !ok {
			return true
		}
		if seen[idx] {
			return false
		}
		seen[idx] = true
		return true
	})
}

// agRowParts returns the cells of every part of row's logical row, pinned
// left first, then center, then pinned right. It misses when the row is not
// split.
func agRowParts(row *goquery.Selection) *goquery.Selection {
	idx, ok := row.Attr("row-index")
	if !ok {
		return nil
	}
	parts := row.Closest(`[class*="ag-body"]`).Find(".ag-row").FilterFunction(func(_ int, r *goquery.Selection) bool {
		v, _ := r.Attr("row-index")
		return v == idx
	})
	if parts.Length() < 2 {
		return nil
	}
	return parts.Find(agCell)
}

var agLayout = &Layout{
	Dialect: dialect.AGGrid,
	HeaderContainer: []cascade.Strategy[*goquery.Selection]{
		{Name: "ag-header", Locate: find(".ag-header")},
		{Name: "header-class", Locate: find(`[class*="ag-header"]`)},
		{Name: "first-aria-row", Locate: find(`[role="row"][aria-rowindex="1"]`)},
	},
	HeaderCells: []cascade.Strategy[*goquery.Selection]{
		{Name: "header-cell", Locate: find(".ag-header-cell")},
		{Name: "aria-columnheader", Locate: find(`[role="columnheader"]`)},
		{Name: "col-id", Locate: find("[col-id]")},
		{Name: "children", Locate: children},
	},
	Rows: []cascade.Strategy[Scope]{
		{Name: "body-viewport", Locate: agViewportRows},
		{Name: "aria-row", Locate: agRoleRows},
		{Name: "row-index", Locate: func(s Scope) *goquery.Selection {
			return dom.Outside(s.Root.Find("[row-index]"), s.Header)
		}},
	},
	Cells: []cascade.Strategy[*goquery.Selection]{
		{Name: "pinned-parts", Locate: agRowParts},
		{Name: "aria-cell", Locate: find(`[role="gridcell"], [role="cell"]`)},
		{Name: "cell-class", Locate: find(".ag-cell")},
		{Name: "col-id", Locate: find("[col-id]")},
		{Name: "children", Locate: children},
	},
	RowCount: []Counter{
		{Name: "body-viewport", Count: countOf(agViewportRows)},
		{Name: "aria-row", Count: countOf(agRoleRows)},
		paginationCounter(`[class*="ag-paging-row-summary"]`),
	},
	TitleSelectors: []string{".ag-header-cell-text", ".ag-header-cell-label"},
	FieldAttrs:     []string{"col-id", "data-colid"},
	Annotate:       true,
}
