package dialect

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

// Family is one candidate-root selector scanned during detection.
type Family struct {
	Dialect  Dialect
	Selector string
	// Nests marks families whose instances can contain further instances of
	// the same family; only the outermost one is a candidate.
	Nests bool
	// SkipRegistered drops candidates that overlap a root registered by an
	// earlier family.
	SkipRegistered bool
}

// Families are scanned in this order; the resulting table indexes follow it.
var Families = []Family{
	{Dialect: PlainTable, Selector: "table"},
	{Dialect: MUIDataGrid, Selector: `[class*="MuiDataGrid-root"], [class*="MuiDataGrid-main"]`, Nests: true},
	{Dialect: AGGrid, Selector: `[class*="ag-root"], [class*="ag-grid"]`, Nests: true},
	{
		Dialect:        GenericAriaGrid,
		Selector:       `[role="grid"], [role="table"], [class*="data-grid"], [class*="datatable"], [class*="data-table"]`,
		Nests:          true,
		SkipRegistered: true,
	},
}

// Candidates returns the family's candidate roots under doc in document
// order, with the nesting rule applied.
func (f Family) Candidates(doc *goquery.Selection) *goquery.Selection {
	sel := doc.Find(f.Selector)
	if f.Nests {
		sel = dom.Outermost(sel)
	}
	return sel
}
