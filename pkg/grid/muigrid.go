package grid

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/cascade"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

const (
	muiViewport = `[class*="MuiDataGrid-virtualScroller"]`
	muiRow      = ".MuiDataGrid-row"
)

func muiViewportRows(s Scope) *goquery.Selection {
	return s.Root.Find(muiViewport).First().Find(muiRow)
}

// muiRoleRows are role=row elements outside the header; the first grid row
// (aria-rowindex 1) is always the header row.
func muiRoleRows(s Scope) *goquery.Selection {
	return dom.Outside(s.Root.Find(`[role="row"]`), s.Header).Not(`[aria-rowindex="1"]`)
}

var muiLayout = &Layout{
	Dialect: dialect.MUIDataGrid,
	HeaderContainer: []cascade.Strategy[*goquery.Selection]{
		{Name: "column-headers", Locate: find(`[class*="MuiDataGrid-columnHeaders"]`)},
		{Name: "first-aria-row", Locate: func(root *goquery.Selection) *goquery.Selection {
			return root.Find(`[role="row"]`).First().Filter(`[aria-rowindex="1"]`)
		}},
		{Name: "main-first-child", Locate: func(root *goquery.Selection) *goquery.Selection {
			return selfOrFind(root, `[class*="MuiDataGrid-main"]`).First().ChildrenFiltered("div").First()
		}},
	},
	HeaderCells: []cascade.Strategy[*goquery.Selection]{
		{Name: "column-header", Locate: find(".MuiDataGrid-columnHeader")},
		{Name: "aria-columnheader", Locate: find(`[role="columnheader"]`)},
		{Name: "field-attr", Locate: find("div[data-field], div[data-colindex]")},
		{Name: "children", Locate: children},
	},
	Rows: []cascade.Strategy[Scope]{
		{Name: "virtual-scroller", Locate: muiViewportRows},
		{Name: "aria-row", Locate: muiRoleRows},
		{Name: "row-class", Locate: func(s Scope) *goquery.Selection {
			return dom.Outside(s.Root.Find(`[class*="MuiDataGrid-row"]`), s.Header).
				Not(`[class*="MuiDataGrid-columnHeader"]`)
		}},
	},
	Cells: []cascade.Strategy[*goquery.Selection]{
		{Name: "aria-cell", Locate: find(`[role="gridcell"], [role="cell"]`)},
		{Name: "cell-class", Locate: find(".MuiDataGrid-cell")},
		{Name: "field-attr", Locate: find("[data-field]")},
		{Name: "children", Locate: children},
	},
	RowCount: []Counter{
		{Name: "virtual-scroller", Count: countOf(muiViewportRows)},
		{Name: "aria-row", Count: countOf(muiRoleRows)},
		paginationCounter(`[class*="MuiTablePagination-displayedRows"]`),
	},
	TitleSelectors: []string{".MuiDataGrid-columnHeaderTitle"},
	FieldAttrs:     []string{"data-field"},
	Annotate:       false,
}
