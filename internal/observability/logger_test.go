package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/benchprep/benchprep/internal/config"
)

func TestNewLoggerEmitsServiceAttribute(t *testing.T) {
	cfg := config.Config{
		Service:       config.ServiceConfig{Name: "benchprep-convert"},
		Observability: config.ObservabilityConfig{LogLevel: slog.LevelInfo, LogJSON: true},
	}

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info("converted file", slog.String("source", "orders.tbl"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["service"] != "benchprep-convert" {
		t.Fatalf("service = %v", entry["service"])
	}
	if entry["source"] != "orders.tbl" {
		t.Fatalf("source = %v", entry["source"])
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	cfg := config.Config{
		Service:       config.ServiceConfig{Name: "benchprep-convert"},
		Observability: config.ObservabilityConfig{LogLevel: slog.LevelWarn},
	}

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info("suppressed")
	logger.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Fatal("info line should be suppressed at warn level")
	}
	if !strings.Contains(output, "kept") {
		t.Fatal("warn line should be emitted")
	}
}
