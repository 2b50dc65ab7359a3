package grid

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/cascade"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

func ariaRoleRows(s Scope) *goquery.Selection {
	return dom.Outside(s.Root.Find(`[role="row"]`), s.Header).Not(`:has([role="columnheader"])`)
}

var ariaLayout = &Layout{
	Dialect: dialect.GenericAriaGrid,
	HeaderContainer: []cascade.Strategy[*goquery.Selection]{
		{Name: "columnheader-row", Locate: find(`[role="row"]:has([role="columnheader"])`)},
		{Name: "thead", Locate: find("thead")},
		{Name: "header-class", Locate: find(`[class*="header"], [class*="Header"]`)},
		{Name: "first-aria-row", Locate: find(`[role="row"]`)},
	},
	HeaderCells: []cascade.Strategy[*goquery.Selection]{
		{Name: "aria-columnheader", Locate: find(`[role="columnheader"]`)},
		{Name: "th", Locate: find("th")},
		{Name: "children", Locate: children},
	},
	Rows: []cascade.Strategy[Scope]{
		{Name: "aria-row", Locate: ariaRoleRows},
		{Name: "tbody-tr", Locate: func(s Scope) *goquery.Selection {
			return dom.Outside(s.Root.Find("tbody tr"), s.Header)
		}},
		{Name: "row-class", Locate: func(s Scope) *goquery.Selection {
			return dom.Outside(s.Root.Find(`[class*="row"]:not([class*="header"]):not([class*="Header"])`), s.Header)
		}},
	},
	Cells: []cascade.Strategy[*goquery.Selection]{
		{Name: "aria-cell", Locate: find(`[role="gridcell"], [role="cell"]`)},
		{Name: "cell-class", Locate: find(`[class*="cell"]`)},
		{Name: "field-attr", Locate: find("[data-field]")},
		{Name: "children", Locate: children},
	},
	RowCount: []Counter{
		{Name: "aria-row", Count: countOf(ariaRoleRows)},
		{Name: "tbody-tr", Count: countOf(func(s Scope) *goquery.Selection {
			return dom.Outside(s.Root.Find("tbody tr"), s.Header)
		})},
		paginationCounter(`[class*="pagination"], [class*="Pagination"]`),
	},
	FieldAttrs: []string{"data-field", "data-column", "data-colid"},
	Annotate:   true,
}
