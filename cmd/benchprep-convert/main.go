package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/benchprep/benchprep/internal/config"
	"github.com/benchprep/benchprep/internal/convert"
	"github.com/benchprep/benchprep/internal/observability"
)

func main() {
	cfg, err := config.LoadFromEnv("benchprep-convert")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	converter := &convert.Converter{Logger: logger}

	start := time.Now()
	report, err := converter.ConvertDir(cfg.Convert.SourceDir)
	if err != nil {
		logger.Error("conversion failed", slog.Any("error", err))
		os.Exit(1)
	}
	observability.ObserveRunDuration("benchprep-convert", time.Since(start))

	logger.Info("conversion finished",
		slog.String("dir", cfg.Convert.SourceDir),
		slog.Int("files", report.FilesConverted),
		slog.Int("records", report.RecordsWritten),
	)

	if cfg.Observability.MetricsFile != "" {
		if err := observability.WriteMetricsFile(cfg.Observability.MetricsFile); err != nil {
			logger.Error("failed to write metrics file", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
