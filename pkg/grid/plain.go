package grid

import (
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/cascade"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"golang.org/x/net/html"
)

// ownRows returns the rows that belong to table itself, in document order,
// leaving rows of nested tables out. With sections given, only rows of those
// section elements are kept.
func ownRows(table *goquery.Selection, sections ...string) *goquery.Selection {
	if table.Length() == 0 {
		return table
	}
	var rows []*html.Node
	for c := table.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			if len(sections) == 0 {
				rows = append(rows, c)
			}
		case "thead", "tbody", "tfoot":
			if len(sections) > 0 && !slices.Contains(sections, c.Data) {
				continue
			}
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.Data == "tr" {
					rows = append(rows, r)
				}
			}
		}
	}
	return table.FindNodes(rows...)
}

func rowCells(row *goquery.Selection) *goquery.Selection {
	return row.ChildrenFiltered("th, td")
}

var plainRows = []cascade.Strategy[Scope]{
	{Name: "tbody", Locate: func(s Scope) *goquery.Selection {
		if ownRows(s.Root, "thead").Length() == 0 {
			return nil
		}
		return ownRows(s.Root, "tbody")
	}},
	{Name: "own-rows", Locate: func(s Scope) *goquery.Selection {
		return ownRows(s.Root).Not("thead > tr").FilterFunction(func(_ int, r *goquery.Selection) bool {
			return s.Header.Length() == 0 || r.Get(0) != s.Header.Get(0)
		})
	}},
}

var plainLayout = &Layout{
	Dialect: dialect.PlainTable,
	HeaderContainer: []cascade.Strategy[*goquery.Selection]{
		{Name: "thead", Locate: func(t *goquery.Selection) *goquery.Selection {
			return ownRows(t, "thead").First()
		}},
		{Name: "first-row", Locate: func(t *goquery.Selection) *goquery.Selection {
			return ownRows(t).First()
		}},
	},
	HeaderCells: []cascade.Strategy[*goquery.Selection]{
		{Name: "th-td", Locate: rowCells},
	},
	Rows: plainRows,
	Cells: []cascade.Strategy[*goquery.Selection]{
		{Name: "th-td", Locate: rowCells},
	},
	RowCount: []Counter{
		{Name: "own-rows", Count: countOf(func(s Scope) *goquery.Selection {
			return cascade.First(s, plainRows).Sel
		})},
	},
	TitleIsCell:    true,
	FieldAttrs:     []string{"data-field"},
	Annotate:       true,
	RequireDataRow: true,
}
