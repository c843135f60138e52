// Package catalog records which benchmark datasets have been materialized:
// one dataset_run row per invocation, one dataset_file row per dumped
// table. The catalog is optional at runtime; the generate CLI wires it only
// when a DSN is configured.
package catalog

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("catalog: not found")

type Repository interface {
	HealthCheck(ctx context.Context) error
	CreateDatasetRun(ctx context.Context, in CreateDatasetRunInput) (DatasetRun, error)
	RegisterDatasetFile(ctx context.Context, in RegisterDatasetFileInput) (DatasetFile, error)
	GetLatestRun(ctx context.Context, datasetName string) (DatasetRun, error)
	ListRunFiles(ctx context.Context, runID int64) ([]DatasetFile, error)
}

type DatasetRun struct {
	RunID       int64
	DatasetName string
	ScaleFactor float64
	CreatedBy   string
	CreatedAt   time.Time
}

type CreateDatasetRunInput struct {
	DatasetName string
	ScaleFactor float64
	CreatedBy   string
}

type DatasetFile struct {
	FileID        int64
	RunID         int64
	TableName     string
	Path          string
	Format        string
	RecordCount   int64
	FileSizeBytes int64
	CreatedAt     time.Time
}

type RegisterDatasetFileInput struct {
	RunID         int64
	TableName     string
	Path          string
	Format        string
	RecordCount   int64
	FileSizeBytes int64
}
