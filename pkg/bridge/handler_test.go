package bridge

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/page"
	"github.com/dtnitsch/web-table-parser/pkg/session"
)

const inventoryPage = `<html><head><title>Inventory</title></head><body>
<table id="stock">
<thead><tr><th>SKU</th><th>Item</th><th>Qty</th></tr></thead>
<tbody>
<tr><td>A1</td><td><a href="/items/a1">Bolt</a></td><td>12</td></tr>
<tr><td>B2</td><td>Nut</td><td>40</td></tr>
</tbody>
</table></body></html>`

type fakeRecorder struct {
	detections  int
	extractions int
}

func (f *fakeRecorder) RecordDetection(models.PageInfo, []models.TableInfo) (int64, error) {
	f.detections++
	return int64(f.detections), nil
}

func (f *fakeRecorder) RecordExtraction(string, models.Request, models.Response) (int64, error) {
	f.extractions++
	return int64(f.extractions), nil
}

func newHandler(t *testing.T) *Handler {
	t.Helper()
	p, err := page.Parse(strings.NewReader(inventoryPage), "https://shop.example.com/stock")
	if err != nil {
		t.Fatalf("page.Parse() error = %v", err)
	}
	return New(p, nil)
}

func extractReq(cols ...int) models.Request {
	m := models.SelectionMask{}
	m.Select(0, cols...)
	return models.Request{Action: models.ActionExtractTableData, SelectedColumns: m, IncludeHeaders: true}
}

func TestHandle_DetectThenExtract(t *testing.T) {
	h := newHandler(t)
	rec := &fakeRecorder{}
	h.Recorder = rec
	ctx := context.Background()

	det := h.Handle(ctx, models.Request{Action: models.ActionDetectTables})
	if !det.Success {
		t.Fatalf("detectTables failed: %s", det.Error)
	}
	if len(det.Tables) != 1 {
		t.Fatalf("detectTables found %d tables, want 1", len(det.Tables))
	}
	tbl := det.Tables[0]
	if tbl.Type != "html-table" || tbl.Rows != 2 || !tbl.HasHeader {
		t.Errorf("table = %+v", tbl)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"SKU", "Item", "Qty"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	if det.Page == nil || det.Page.Title != "Inventory" {
		t.Errorf("Page = %+v, want title Inventory", det.Page)
	}

	ext := h.Handle(ctx, extractReq(1, 2))
	if !ext.Success {
		t.Fatalf("extractTableData failed: %s", ext.Error)
	}
	want := [][]string{
		{"Item", "Qty"},
		{"Bolt (https://shop.example.com/items/a1)", "12"},
		{"Nut", "40"},
	}
	if !reflect.DeepEqual(ext.Data, want) {
		t.Errorf("Data = %q, want %q", ext.Data, want)
	}
	if rec.detections != 1 || rec.extractions != 1 {
		t.Errorf("recorder saw %d detections, %d extractions", rec.detections, rec.extractions)
	}
}

func TestHandle_ExtractBeforeDetect(t *testing.T) {
	h := newHandler(t)
	resp := h.Handle(context.Background(), extractReq(0))
	if resp.Success {
		t.Fatal("extractTableData succeeded without detection")
	}
	if !strings.Contains(resp.Error, "re-run detection") {
		t.Errorf("Error = %q, want a re-run detection hint", resp.Error)
	}
}

func TestHandle_RemovedTableIsStale(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	if resp := h.Handle(ctx, models.Request{Action: models.ActionDetectTables}); !resp.Success {
		t.Fatalf("detectTables failed: %s", resp.Error)
	}
	rm := h.Handle(ctx, models.Request{Action: models.ActionRemoveElements, Selector: "#stock"})
	if !rm.Success || rm.Removed != 1 {
		t.Fatalf("removeElements = %+v", rm)
	}

	resp := h.Handle(ctx, extractReq(0))
	if resp.Success {
		t.Fatal("extractTableData succeeded against a removed table")
	}
	if resp.ErrorType != "stale_session" || !strings.Contains(resp.Error, "re-run detection") {
		t.Errorf("response = %+v", resp)
	}
	if h.Session.State() != session.Stale {
		t.Errorf("session state = %v, want stale", h.Session.State())
	}

	again := h.Handle(ctx, models.Request{Action: models.ActionDetectTables})
	if !again.Success || len(again.Tables) != 0 {
		t.Errorf("re-detection = %+v, want success with no tables", again)
	}
}

func TestHandle_RemoveNeedsSelector(t *testing.T) {
	h := newHandler(t)
	resp := h.Handle(context.Background(), models.Request{Action: models.ActionRemoveElements})
	if resp.Success || resp.ErrorType != "invalid_request" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandle_UnknownAction(t *testing.T) {
	tests := []struct {
		action  string
		suggest string
	}{
		{action: "detecttables", suggest: models.ActionDetectTables},
		{action: "extract", suggest: models.ActionExtractTableData},
		{action: "zz", suggest: ""},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			resp := h.Handle(context.Background(), models.Request{Action: tt.action})
			if resp.Success || resp.ErrorType != "unknown_action" {
				t.Fatalf("response = %+v", resp)
			}
			hinted := strings.Contains(resp.Error, "Did you mean")
			if tt.suggest == "" && hinted {
				t.Errorf("Error = %q, want no suggestion", resp.Error)
			}
			if tt.suggest != "" && !strings.Contains(resp.Error, "'"+tt.suggest+"'") {
				t.Errorf("Error = %q, want suggestion %q", resp.Error, tt.suggest)
			}
		})
	}
}

func TestHandle_Canceled(t *testing.T) {
	h := newHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := h.Handle(ctx, models.Request{Action: models.ActionDetectTables})
	if resp.Success || resp.ErrorType != "canceled" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandle_RecoversPanic(t *testing.T) {
	h := &Handler{Session: session.New()}
	resp := h.Handle(context.Background(), models.Request{Action: models.ActionDetectTables})
	if resp.Success || resp.ErrorType != "internal_error" {
		t.Errorf("response = %+v, want internal_error", resp)
	}
}
