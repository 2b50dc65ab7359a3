package models

import "sort"

// Bridge actions.
const (
	ActionDetectTables     = "detectTables"
	ActionExtractTableData = "extractTableData"
	ActionRemoveElements   = "removeElements"
)

// AllActions returns every action the bridge understands.
func AllActions() []string {
	return []string{ActionDetectTables, ActionExtractTableData, ActionRemoveElements}
}

// IsValidAction checks if action is known.
func IsValidAction(action string) bool {
	for _, a := range AllActions() {
		if a == action {
			return true
		}
	}
	return false
}

// Request is one message sent to the bridge.
type Request struct {
	Action string `json:"action" yaml:"action"`

	SelectedColumns  SelectionMask `json:"selectedColumns,omitempty" yaml:"selected_columns,omitempty"`
	IncludeHeaders   bool          `json:"includeHeaders,omitempty" yaml:"include_headers,omitempty"`
	SkipFirstDataRow bool          `json:"skipFirstDataRow,omitempty" yaml:"skip_first_data_row,omitempty"`

	// Selector is the CSS selector of elements removed by removeElements.
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
}

// SelectionMask maps a table index to the set of selected physical column
// indices. Absent or false entries are unselected.
type SelectionMask map[int]map[int]bool

// Tables returns the indexes of tables with at least one selected column, in
// ascending order.
func (m SelectionMask) Tables() []int {
	var out []int
	for t := range m {
		if len(m.Columns(t)) > 0 {
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}

// Columns returns the selected column indices of table, in ascending order.
func (m SelectionMask) Columns(table int) []int {
	var out []int
	for c, on := range m[table] {
		if on && c >= 0 {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

// Select marks col of table as selected.
func (m SelectionMask) Select(table int, cols ...int) {
	if m[table] == nil {
		m[table] = make(map[int]bool)
	}
	for _, c := range cols {
		m[table][c] = true
	}
}
