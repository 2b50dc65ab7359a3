package models

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wtp.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}

	cfg, err = LoadConfig("")
	if err != nil || cfg.WorkerCount != 4 {
		t.Errorf("LoadConfig(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
max_header_length: 40
control_columns: [__check__, select]
annotate:
  mui-datagrid: true
cache_ttl: 15m
workers: 8
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxHeaderLength != 40 || cfg.WorkerCount != 8 || cfg.CacheTTL != 15*time.Minute {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ControlColumns, []string{"__check__", "select"}) {
		t.Errorf("ControlColumns = %v", cfg.ControlColumns)
	}
	if !cfg.Annotate["mui-datagrid"] {
		t.Errorf("Annotate = %v", cfg.Annotate)
	}
	if cfg.DatabasePath != "wtp.db" {
		t.Errorf("DatabasePath = %q, want the default kept", cfg.DatabasePath)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "workers: [1"},
		{name: "zero workers", body: "workers: 0"},
		{name: "bad duration", body: "cache_ttl: soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("LoadConfig() error = nil")
			}
		})
	}
}
