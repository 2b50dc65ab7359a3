package grid

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return mustDoc(t, string(data))
}

func TestLocate_PlainGolden(t *testing.T) {
	doc := mustDoc(t, `<table>
<thead><tr><th>c1</th><th>c2</th></tr></thead>
<tbody><tr><td>1</td><td>a</td></tr><tr><td>2</td><td>b</td></tr><tr><td>3</td><td>c</td></tr></tbody>
</table>`)

	tbl := For(dialect.PlainTable).Locate(doc.Find("table"))
	cols := tbl.Columns(DefaultNaming)
	if !slices.Equal(cols.Names, []string{"c1", "c2"}) {
		t.Errorf("Columns().Names = %v, want [c1 c2]", cols.Names)
	}
	rows, _ := tbl.CountRows()
	if rows != 3 {
		t.Errorf("CountRows() = %d, want 3", rows)
	}
	if tbl.HeaderStrategy != "thead" {
		t.Errorf("HeaderStrategy = %q, want thead", tbl.HeaderStrategy)
	}
}

func TestLocate_PlainVariants(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		wantCols []string
		wantRows int
	}{
		{
			name:     "first row is header without thead",
			markup:   `<table><tr><td>Item</td><td>Qty</td></tr><tr><td>Pen</td><td>2</td></tr><tr><td>Ink</td><td>1</td></tr></table>`,
			wantCols: []string{"Item", "Qty"},
			wantRows: 2,
		},
		{
			name:     "nested table rows are not counted",
			markup:   `<table id="outer"><tr><th>A</th></tr><tr><td><table><tr><td>x</td></tr><tr><td>y</td></tr></table></td></tr></table>`,
			wantCols: []string{"A"},
			wantRows: 1,
		},
		{
			name:     "empty header cell gets synthesized name",
			markup:   `<table><thead><tr><th></th><th>Price ▼</th></tr></thead><tbody><tr><td>1</td><td>9</td></tr></tbody></table>`,
			wantCols: []string{"Column 1", "Price"},
			wantRows: 1,
		},
		{
			name:     "empty thead falls back to first body row",
			markup:   `<table><thead></thead><tbody><tr><th>H1</th><th>H2</th></tr><tr><td>a</td><td>b</td></tr></tbody></table>`,
			wantCols: []string{"H1", "H2"},
			wantRows: 1,
		},
		{
			name:     "header only",
			markup:   `<table><thead><tr><th>A</th></tr></thead></table>`,
			wantCols: []string{"A"},
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.markup)
			tbl := For(dialect.PlainTable).Locate(doc.Find("table").First())
			cols := tbl.Columns(DefaultNaming)
			if !slices.Equal(cols.Names, tt.wantCols) {
				t.Errorf("Columns().Names = %v, want %v", cols.Names, tt.wantCols)
			}
			if rows, _ := tbl.CountRows(); rows != tt.wantRows {
				t.Errorf("CountRows() = %d, want %d", rows, tt.wantRows)
			}
		})
	}
}

func TestLocate_MUI(t *testing.T) {
	doc := loadFixture(t, "mui.html")
	tbl := For(dialect.MUIDataGrid).Locate(doc.Find(".MuiDataGrid-root"))

	cols := tbl.Columns(DefaultNaming)
	wantNames := []string{"Column 1", "Name", "Name_name_2", "Email"}
	if !slices.Equal(cols.Names, wantNames) {
		t.Errorf("Columns().Names = %v, want %v", cols.Names, wantNames)
	}
	if !slices.Equal(cols.Indices, []int{0, 1, 2, 3}) {
		t.Errorf("Columns().Indices = %v", cols.Indices)
	}

	rows, strategy := tbl.CountRows()
	if rows != 3 || strategy != "virtual-scroller" {
		t.Errorf("CountRows() = %d via %q, want 3 via virtual-scroller", rows, strategy)
	}
	if tbl.HeaderStrategy != "column-headers" || tbl.HeaderCellStrategy != "column-header" {
		t.Errorf("strategies = %q/%q", tbl.HeaderStrategy, tbl.HeaderCellStrategy)
	}

	cell := tbl.Layout.CellAt(tbl.Rows.Eq(1), 2)
	if got := strings.TrimSpace(cell.Text()); got != "Turing" {
		t.Errorf("CellAt(1, 2) = %q, want Turing", got)
	}
	if tbl.Layout.CellAt(tbl.Rows.Eq(0), 9).Length() != 0 {
		t.Error("CellAt() out of range returned a cell")
	}
}

func TestLocate_MUIPaginationOnly(t *testing.T) {
	doc := mustDoc(t, `
<div class="MuiDataGrid-root">
  <div class="MuiDataGrid-columnHeaders">
    <div class="MuiDataGrid-columnHeader" data-field="id"><div class="MuiDataGrid-columnHeaderTitle">ID</div></div>
  </div>
  <p class="MuiTablePagination-displayedRows">1–25 of 1,204</p>
</div>`)

	tbl := For(dialect.MUIDataGrid).Locate(doc.Find(".MuiDataGrid-root"))
	rows, strategy := tbl.CountRows()
	if rows != 1204 || strategy != "pagination" {
		t.Errorf("CountRows() = %d via %q, want 1204 via pagination", rows, strategy)
	}
}

func TestLocate_AGGrid(t *testing.T) {
	doc := loadFixture(t, "ag.html")
	tbl := For(dialect.AGGrid).Locate(doc.Find(".ag-root-wrapper"))

	cols := tbl.Columns(DefaultNaming)
	if !slices.Equal(cols.Names, []string{"Make", "Model", "Price"}) {
		t.Errorf("Columns().Names = %v", cols.Names)
	}
	if rows, strategy := tbl.CountRows(); rows != 2 || strategy != "body-viewport" {
		t.Errorf("CountRows() = %d via %q, want 2 via body-viewport", rows, strategy)
	}
}

const agPinned = `
<div class="ag-root-wrapper">
  <div class="ag-header">
    <div class="ag-pinned-left-header"><div class="ag-header-row" role="row">
      <div class="ag-header-cell" role="columnheader" col-id="id"><span class="ag-header-cell-text">ID</span></div>
    </div></div>
    <div class="ag-header-viewport"><div class="ag-header-row" role="row">
      <div class="ag-header-cell" role="columnheader" col-id="name"><span class="ag-header-cell-text">Name</span></div>
    </div></div>
  </div>
  <div class="ag-body">
    <div class="ag-body-viewport">
      <div class="ag-pinned-left-cols-container">
        <div class="ag-row" role="row" row-index="0"><div class="ag-cell" role="gridcell" col-id="id">1</div></div>
        <div class="ag-row" role="row" row-index="1"><div class="ag-cell" role="gridcell" col-id="id">2</div></div>
      </div>
      <div class="ag-center-cols-viewport"><div class="ag-center-cols-container">
        <div class="ag-row" role="row" row-index="0"><div class="ag-cell" role="gridcell" col-id="name">Ada</div></div>
        <div class="ag-row" role="row" row-index="1"><div class="ag-cell" role="gridcell" col-id="name">Grace</div></div>
      </div></div>
    </div>
  </div>
</div>`

func TestLocate_AGGridPinnedColumns(t *testing.T) {
	doc := mustDoc(t, agPinned)
	tbl := For(dialect.AGGrid).Locate(doc.Find(".ag-root-wrapper"))

	if cols := tbl.Columns(DefaultNaming); !slices.Equal(cols.Names, []string{"ID", "Name"}) {
		t.Errorf("Columns().Names = %v, want [ID Name]", cols.Names)
	}
	if rows, _ := tbl.CountRows(); rows != 2 {
		t.Errorf("CountRows() = %d, want 2 logical rows", rows)
	}

	var got [][]string
	tbl.Rows.Each(func(_ int, row *goquery.Selection) {
		var cells []string
		tbl.Layout.RowCells(row).Each(func(_ int, c *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(c.Text()))
		})
		got = append(got, cells)
	})
	want := [][]string{{"1", "Ada"}, {"2", "Grace"}}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("row %d cells = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLocate_Aria(t *testing.T) {
	doc := loadFixture(t, "aria.html")
	tbl := For(dialect.GenericAriaGrid).Locate(doc.Find("#orders"))

	cols := tbl.Columns(DefaultNaming)
	want := []string{"Order", "Status", "Total", "Column 4"}
	if !slices.Equal(cols.Names, want) {
		t.Errorf("Columns().Names = %v, want %v", cols.Names, want)
	}
	if rows, _ := tbl.CountRows(); rows != 2 {
		t.Errorf("CountRows() = %d, want 2", rows)
	}
}

func TestColumns_Dedup(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		wantNames   []string
		wantIndices []int
	}{
		{
			name: "field identifier suffix",
			markup: `<div role="grid"><div role="row">
<div role="columnheader">Name</div>
<div role="columnheader" data-field="name_2">Name</div>
</div></div>`,
			wantNames:   []string{"Name", "Name_name_2"},
			wantIndices: []int{0, 1},
		},
		{
			name: "no identifier drops the column",
			markup: `<div role="grid"><div role="row">
<div role="columnheader">Name</div>
<div role="columnheader">Name</div>
<div role="columnheader">Age</div>
</div></div>`,
			wantNames:   []string{"Name", "Age"},
			wantIndices: []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.markup)
			tbl := For(dialect.GenericAriaGrid).Locate(doc.Find(`[role="grid"]`))
			cols := tbl.Columns(DefaultNaming)
			if !slices.Equal(cols.Names, tt.wantNames) {
				t.Errorf("Names = %v, want %v", cols.Names, tt.wantNames)
			}
			if !slices.Equal(cols.Indices, tt.wantIndices) {
				t.Errorf("Indices = %v, want %v", cols.Indices, tt.wantIndices)
			}
			if tbl.HeaderCells.Length() != len(cols.Labels) {
				t.Errorf("Labels = %d, header cells = %d", len(cols.Labels), tbl.HeaderCells.Length())
			}
		})
	}
}

func TestColumns_HeaderLabel(t *testing.T) {
	cols := Columns{
		Names:   []string{"Name", "Age"},
		Indices: []int{0, 2},
		Labels:  []string{"Name", "Name", "Age"},
	}
	for col, want := range map[int]string{0: "Name", 1: "Name", 2: "Age", 5: ""} {
		if got := cols.HeaderLabel(col); got != want {
			t.Errorf("HeaderLabel(%d) = %q, want %q", col, got, want)
		}
	}
}

func TestColumns_LengthBound(t *testing.T) {
	long := strings.Repeat("x", 150)
	doc := mustDoc(t, `<div role="grid"><div role="row"><div role="columnheader" data-field="notes">`+long+`</div></div></div>`)
	tbl := For(dialect.GenericAriaGrid).Locate(doc.Find(`[role="grid"]`))
	cols := tbl.Columns(DefaultNaming)
	if !slices.Equal(cols.Names, []string{"notes"}) {
		t.Errorf("Names = %v, want [notes]", cols.Names)
	}
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{text: "1-25 of 100", want: 100, ok: true},
		{text: "1–10 of 1,204", want: 1204, ok: true},
		{text: "Rows 1 to 100 of 500", want: 500, ok: true},
		{text: "Page 1", ok: false},
		{text: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseSummary(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSummary(%q) = %d, %v, want %d, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
