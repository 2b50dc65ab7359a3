package extractor

import (
	"slices"
	"testing"

	"github.com/dtnitsch/web-table-parser/pkg/session"
)

func TestParseSelection(t *testing.T) {
	entries := []session.Entry{
		{Index: 0, ColumnIndices: []int{0, 1, 3}},
		{Index: 1, ColumnIndices: []int{0}},
	}

	tests := []struct {
		name    string
		input   string
		want    map[int][]int
		wantErr bool
	}{
		{name: "two tables", input: "0:1,2;1:0", want: map[int][]int{0: {1, 2}, 1: {0}}},
		{name: "spaces tolerated", input: " 0 : 3 , 1 ; ", want: map[int][]int{0: {1, 3}}},
		{name: "wildcard", input: "0:*", want: map[int][]int{0: {0, 1, 3}}},
		{name: "empty selects everything", input: "", want: map[int][]int{0: {0, 1, 3}, 1: {0}}},
		{name: "missing colon", input: "0", wantErr: true},
		{name: "bad column", input: "0:a", wantErr: true},
		{name: "negative table", input: "-1:0", wantErr: true},
		{name: "wildcard on unknown table", input: "4:*", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, err := ParseSelection(tt.input, entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSelection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(mask.Tables()) != len(tt.want) {
				t.Errorf("Tables() = %v, want %d tables", mask.Tables(), len(tt.want))
			}
			for table, cols := range tt.want {
				if got := mask.Columns(table); !slices.Equal(got, cols) {
					t.Errorf("Columns(%d) = %v, want %v", table, got, cols)
				}
			}
		})
	}
}
