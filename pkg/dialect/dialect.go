// Package dialect names the table and grid families the engine understands
// and decides which one a candidate root belongs to.
package dialect

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
)

// Dialect is a closed set of table implementations.
type Dialect int

const (
	PlainTable Dialect = iota
	MUIDataGrid
	AGGrid
	GenericAriaGrid
)

var names = map[Dialect]string{
	PlainTable:      "html-table",
	MUIDataGrid:     "mui-datagrid",
	AGGrid:          "ag-grid",
	GenericAriaGrid: "generic",
}

// All lists every dialect in classification order.
var All = []Dialect{PlainTable, MUIDataGrid, AGGrid, GenericAriaGrid}

func (d Dialect) String() string {
	if s, ok := names[d]; ok {
		return s
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// Parse maps a wire string back to its Dialect.
func Parse(s string) (Dialect, error) {
	for d, name := range names {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dialect %q", s)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML carry the
// wire string.
func (d Dialect) MarshalText() ([]byte, error) {
	if _, ok := names[d]; !ok {
		return nil, fmt.Errorf("unknown dialect %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

const (
	muiMarker = "MuiDataGrid"

	muiDescendants = `[class*="MuiDataGrid"]`
	agDescendants  = `[class*="ag-root"], [class*="ag-grid"]`
)

func ownAGMarker(root *goquery.Selection) bool {
	return dom.ClassContains(root, "ag-root") || dom.ClassContains(root, "ag-grid")
}

// Classify picks the dialect of a candidate root from its own classes, its
// tag and its descendants. It never caches: callers classify again whenever
// they come back to the same element.
func Classify(root *goquery.Selection) Dialect {
	switch {
	case dom.ClassContains(root, muiMarker):
		return MUIDataGrid
	case ownAGMarker(root):
		return AGGrid
	case goquery.NodeName(root) == "table":
		return PlainTable
	case root.Find(muiDescendants).Length() > 0:
		return MUIDataGrid
	case root.Find(agDescendants).Length() > 0:
		return AGGrid
	}
	return GenericAriaGrid
}
