package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSelectionMask(t *testing.T) {
	m := SelectionMask{}
	m.Select(2, 3, 1)
	m.Select(0, 0)
	m[1] = map[int]bool{4: false}
	m[5] = map[int]bool{-1: true}

	if got := m.Tables(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Tables() = %v, want [0 2]", got)
	}
	if got := m.Columns(2); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Columns(2) = %v, want [1 3]", got)
	}
	if got := m.Columns(9); got != nil {
		t.Errorf("Columns(9) = %v, want nil", got)
	}
}

func TestRequest_DecodesSelection(t *testing.T) {
	var req Request
	body := `{"action":"extractTableData","selectedColumns":{"1":{"0":true,"2":false}},"includeHeaders":true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if req.Action != ActionExtractTableData || !req.IncludeHeaders {
		t.Errorf("req = %+v", req)
	}
	if got := req.SelectedColumns.Columns(1); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Columns(1) = %v", got)
	}
}

func TestIsValidAction(t *testing.T) {
	for _, a := range AllActions() {
		if !IsValidAction(a) {
			t.Errorf("IsValidAction(%q) = false", a)
		}
	}
	if IsValidAction("DetectTables") {
		t.Error("IsValidAction() is case-insensitive")
	}
}

func TestResponse_OmitsEmptySections(t *testing.T) {
	out, err := json.Marshal(NewUnknownActionResponse("nope", "detectTables"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(out)
	for _, absent := range []string{`"tables"`, `"data"`, `"page"`} {
		if strings.Contains(s, absent) {
			t.Errorf("response %s contains %s", s, absent)
		}
	}
	if !strings.Contains(s, "Did you mean 'detectTables'?") {
		t.Errorf("response %s lacks the suggestion", s)
	}

	// an empty matrix is still reported
	out, _ = json.Marshal(Response{Success: true, Data: [][]string{}})
	if !strings.Contains(string(out), `"data":[]`) {
		t.Errorf("empty data omitted: %s", out)
	}
}
