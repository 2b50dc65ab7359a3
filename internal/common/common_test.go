package common

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"testing"

	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/grid"
)

func TestSanitizeSources(t *testing.T) {
	good, bad := SanitizeSources([]string{
		" https://example.com/a, ",
		"[docs](https://example.com/docs)",
		"./pages/orders.html",
		"https://exa mple.com",
		"http://localhost:8080/t",
		"",
	})

	wantGood := []string{"https://example.com/a", "https://example.com/docs", "./pages/orders.html", "http://localhost:8080/t"}
	if !reflect.DeepEqual(good, wantGood) {
		t.Errorf("sanitized = %v, want %v", good, wantGood)
	}
	if !reflect.DeepEqual(bad, []string{"https://exa mple.com"}) {
		t.Errorf("invalid = %v", bad)
	}
}

func TestNamingRules(t *testing.T) {
	cfg := models.DefaultConfig()
	if got := NamingRules(cfg); !reflect.DeepEqual(got, grid.DefaultNaming) {
		t.Errorf("NamingRules(default) = %+v, want engine defaults", got)
	}

	cfg.MaxHeaderLength = 20
	cfg.ControlColumns = []string{"select"}
	got := NamingRules(cfg)
	if got.MaxHeaderLen != 20 || !reflect.DeepEqual(got.ControlColumns, []string{"select"}) {
		t.Errorf("NamingRules() = %+v", got)
	}
	if !reflect.DeepEqual(got.AriaBoilerplate, grid.DefaultNaming.AriaBoilerplate) {
		t.Error("unset boilerplate list did not fall back to the default")
	}
}

func TestAnnotateOverrides(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Annotate = map[string]bool{"mui-datagrid": true, "ag-grid": false}

	got, err := AnnotateOverrides(cfg)
	if err != nil {
		t.Fatalf("AnnotateOverrides() error = %v", err)
	}
	want := map[dialect.Dialect]bool{dialect.MUIDataGrid: true, dialect.AGGrid: false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnnotateOverrides() = %v, want %v", got, want)
	}

	cfg.Annotate = map[string]bool{"handsontable": true}
	if _, err := AnnotateOverrides(cfg); err == nil {
		t.Error("AnnotateOverrides() error = nil for an unknown dialect")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	if l := newLogger(&buf, true, true); l.Enabled(ctx, slog.LevelWarn) {
		t.Error("quiet logger has warn enabled")
	}
	if l := newLogger(&buf, false, true); !l.Enabled(ctx, slog.LevelDebug) {
		t.Error("verbose logger has debug disabled")
	}
	if l := newLogger(&buf, false, false); l.Enabled(ctx, slog.LevelDebug) {
		t.Error("default logger has debug enabled")
	}
}

func TestEngine_Handler(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.CacheDir = ""
	e, err := NewEngine(cfg, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	h, err := e.Handler([]byte(`<table><tr><th>A</th></tr><tr><td>1</td></tr></table>`), "https://example.com/t")
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	resp := h.Handle(context.Background(), models.Request{Action: models.ActionDetectTables})
	if err := Fail(resp); err != nil {
		t.Fatalf("detectTables failed: %v", err)
	}
	if len(resp.Tables) != 1 || PageURL(h) != "https://example.com/t" {
		t.Errorf("tables = %+v, url = %q", resp.Tables, PageURL(h))
	}
}

func TestContentHash(t *testing.T) {
	got := ContentHash([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("ContentHash() = %s, want %s", got, want)
	}
}

func TestNewEngine_Refresh(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	cfg.Refresh = true
	e, err := NewEngine(cfg, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if !e.Fetcher.Refresh {
		t.Error("Fetcher.Refresh = false, want the config's refresh flag")
	}
}
