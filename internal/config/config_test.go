package config

import (
	"log/slog"
	"testing"
	"time"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("benchprep-generate", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "benchprep-generate" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.Convert.SourceDir != "." {
		t.Fatalf("Convert.SourceDir = %q", cfg.Convert.SourceDir)
	}
	if cfg.Generate.ScaleFactor != 1 {
		t.Fatalf("Generate.ScaleFactor = %v", cfg.Generate.ScaleFactor)
	}
	if cfg.Generate.CreatedBy != "benchprep-generate" {
		t.Fatalf("Generate.CreatedBy = %q", cfg.Generate.CreatedBy)
	}
	if cfg.Catalog.DSN != "" {
		t.Fatalf("Catalog.DSN should default to empty, got %q", cfg.Catalog.DSN)
	}
	if cfg.ObjectStore.UploadEnabled {
		t.Fatal("ObjectStore.UploadEnabled should default to false")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogJSON {
		t.Fatal("LogJSON should default to false")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"BENCHPREP_SOURCE_DIR":                 "/data/tpch",
		"BENCHPREP_SCALE_FACTOR":               "0.01",
		"BENCHPREP_OUTPUT_DIR":                 "out",
		"BENCHPREP_DATASET_NAME":               "tpch-tiny",
		"BENCHPREP_CATALOG_DSN":                "postgres://localhost/bench",
		"BENCHPREP_CATALOG_CONN_MAX_IDLE_TIME": "90s",
		"BENCHPREP_UPLOAD_ENABLED":             "true",
		"BENCHPREP_OBJECTSTORE_ENDPOINT":       "localhost:9000",
		"BENCHPREP_OBJECTSTORE_BUCKET":         "benchprep",
		"BENCHPREP_LOG_LEVEL":                  "debug",
		"BENCHPREP_LOG_JSON":                   "true",
		"BENCHPREP_METRICS_FILE":               "/var/lib/node_exporter/benchprep.prom",
	})
	cfg, err := Load("benchprep-generate", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Convert.SourceDir != "/data/tpch" {
		t.Fatalf("Convert.SourceDir = %q", cfg.Convert.SourceDir)
	}
	if cfg.Generate.ScaleFactor != 0.01 {
		t.Fatalf("Generate.ScaleFactor = %v", cfg.Generate.ScaleFactor)
	}
	if cfg.Generate.OutputDir != "out" {
		t.Fatalf("Generate.OutputDir = %q", cfg.Generate.OutputDir)
	}
	if cfg.Generate.DatasetName != "tpch-tiny" {
		t.Fatalf("Generate.DatasetName = %q", cfg.Generate.DatasetName)
	}
	if cfg.Catalog.ConnMaxIdleTime != 90*time.Second {
		t.Fatalf("Catalog.ConnMaxIdleTime = %v", cfg.Catalog.ConnMaxIdleTime)
	}
	if !cfg.ObjectStore.UploadEnabled {
		t.Fatal("ObjectStore.UploadEnabled should be true")
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Observability.LogJSON {
		t.Fatal("LogJSON should be true")
	}
	if cfg.Observability.MetricsFile != "/var/lib/node_exporter/benchprep.prom" {
		t.Fatalf("MetricsFile = %q", cfg.Observability.MetricsFile)
	}
}

func TestLoadRejectsInvalidScaleFactor(t *testing.T) {
	if _, err := Load("benchprep-generate", mapLookup(map[string]string{"BENCHPREP_SCALE_FACTOR": "0"})); err == nil {
		t.Fatal("expected error for zero scale factor")
	}
	if _, err := Load("benchprep-generate", mapLookup(map[string]string{"BENCHPREP_SCALE_FACTOR": "lots"})); err == nil {
		t.Fatal("expected error for non-numeric scale factor")
	}
}

func TestLoadRequiresStoreSettingsWhenUploadEnabled(t *testing.T) {
	_, err := Load("benchprep-generate", mapLookup(map[string]string{
		"BENCHPREP_UPLOAD_ENABLED": "true",
	}))
	if err == nil {
		t.Fatal("expected error when upload is enabled without endpoint")
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	if _, err := Load("benchprep-convert", mapLookup(map[string]string{"BENCHPREP_LOG_LEVEL": "loud"})); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
