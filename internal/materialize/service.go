// Package materialize orchestrates a TPC-H dataset build: dbgen through
// the engine, parquet verification, and the optional catalog record and
// object-store upload.
package materialize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/benchprep/benchprep/internal/catalog"
	"github.com/benchprep/benchprep/internal/observability"
	"github.com/benchprep/benchprep/internal/storage"
	"github.com/benchprep/benchprep/internal/tpch"
)

type Config struct {
	ScaleFactor float64
	OutputDir   string
	DatasetName string
	CreatedBy   string
}

// Service runs one materialization. Engine is required; Catalog and
// ObjectStore are optional collaborators wired in by the CLI when
// configured.
type Service struct {
	Engine      tpch.Engine
	Catalog     catalog.Repository
	ObjectStore storage.ObjectStore
	Config      Config
	Logger      *slog.Logger
	Clock       func() time.Time
}

type Summary struct {
	DatasetName    string
	OutputDir      string
	TablesDumped   int
	RowsDumped     int64
	BytesWritten   int64
	FilesUploaded  int
	CatalogRunID   int64
	Duration       time.Duration
}

func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s.Engine == nil {
		return Summary{}, fmt.Errorf("engine is required")
	}
	if s.Config.ScaleFactor <= 0 {
		return Summary{}, fmt.Errorf("scale factor must be > 0")
	}
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	start := clock()
	outputDir := s.Config.OutputDir
	if outputDir == "" {
		outputDir = tpch.OutputDirName(s.Config.ScaleFactor)
	}
	datasetName := s.Config.DatasetName
	if datasetName == "" {
		datasetName = tpch.OutputDirName(s.Config.ScaleFactor)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory %q: %w", outputDir, err)
	}

	logger.Info("materializing benchmark dataset",
		slog.String("dataset", datasetName),
		slog.Float64("scale_factor", s.Config.ScaleFactor),
		slog.String("output_dir", outputDir),
	)

	dumps, err := s.Engine.Generate(ctx, s.Config.ScaleFactor, outputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("generate dataset: %w", err)
	}

	summary := Summary{DatasetName: datasetName, OutputDir: outputDir}
	for _, dump := range dumps {
		if err := verifyDump(dump); err != nil {
			return Summary{}, err
		}
		summary.TablesDumped++
		summary.RowsDumped += dump.RecordCount
		summary.BytesWritten += dump.FileSizeBytes
		observability.RecordTableMaterialized(dump.RecordCount, dump.FileSizeBytes)
		logger.Info("dumped table",
			slog.String("table", dump.TableName),
			slog.String("path", dump.Path),
			slog.Int64("rows", dump.RecordCount),
			slog.Int64("size_bytes", dump.FileSizeBytes),
		)
	}

	if s.Catalog != nil {
		runID, err := s.recordRun(ctx, datasetName, dumps)
		if err != nil {
			return Summary{}, err
		}
		summary.CatalogRunID = runID
	}

	if s.ObjectStore != nil {
		uploaded, err := s.uploadDumps(ctx, datasetName, dumps)
		if err != nil {
			return Summary{}, err
		}
		summary.FilesUploaded = uploaded
	}

	summary.Duration = clock().Sub(start)
	logger.Info("dataset materialized",
		slog.String("dataset", datasetName),
		slog.Int("tables", summary.TablesDumped),
		slog.Int64("rows", summary.RowsDumped),
		slog.Int64("bytes", summary.BytesWritten),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// verifyDump cross-checks the engine-reported row count against the
// parquet footer of the written file.
func verifyDump(dump tpch.TableDump) error {
	info, err := tpch.InspectParquetFile(dump.Path)
	if err != nil {
		return fmt.Errorf("verify table %q: %w", dump.TableName, err)
	}
	if info.RowCount != dump.RecordCount {
		return fmt.Errorf("verify table %q: parquet has %d rows, engine reported %d", dump.TableName, info.RowCount, dump.RecordCount)
	}
	return nil
}

func (s *Service) recordRun(ctx context.Context, datasetName string, dumps []tpch.TableDump) (int64, error) {
	run, err := s.Catalog.CreateDatasetRun(ctx, catalog.CreateDatasetRunInput{
		DatasetName: datasetName,
		ScaleFactor: s.Config.ScaleFactor,
		CreatedBy:   s.Config.CreatedBy,
	})
	if err != nil {
		return 0, fmt.Errorf("record dataset run: %w", err)
	}
	for _, dump := range dumps {
		if _, err := s.Catalog.RegisterDatasetFile(ctx, catalog.RegisterDatasetFileInput{
			RunID:         run.RunID,
			TableName:     dump.TableName,
			Path:          dump.Path,
			Format:        "parquet",
			RecordCount:   dump.RecordCount,
			FileSizeBytes: dump.FileSizeBytes,
		}); err != nil {
			return 0, fmt.Errorf("record dataset file %q: %w", dump.TableName, err)
		}
	}
	return run.RunID, nil
}

func (s *Service) uploadDumps(ctx context.Context, datasetName string, dumps []tpch.TableDump) (int, error) {
	uploaded := 0
	for _, dump := range dumps {
		key, err := storage.BuildDatasetFilePath(datasetName, dump.TableName+".parquet")
		if err != nil {
			return uploaded, fmt.Errorf("build object key for table %q: %w", dump.TableName, err)
		}

		file, err := os.Open(dump.Path)
		if err != nil {
			return uploaded, fmt.Errorf("open parquet file %q: %w", dump.Path, err)
		}
		_, err = s.ObjectStore.Put(ctx, key, file, dump.FileSizeBytes, storage.PutOptions{ContentType: "application/octet-stream"})
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return uploaded, fmt.Errorf("upload table %q: %w", dump.TableName, err)
		}

		info, err := s.ObjectStore.Stat(ctx, key)
		if err != nil {
			return uploaded, fmt.Errorf("stat uploaded table %q: %w", dump.TableName, err)
		}
		if info.Size != dump.FileSizeBytes {
			return uploaded, fmt.Errorf("uploaded table %q has %d bytes, local file has %d", dump.TableName, info.Size, dump.FileSizeBytes)
		}
		uploaded++
	}
	return uploaded, nil
}
