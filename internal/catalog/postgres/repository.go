package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benchprep/benchprep/internal/catalog"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping catalog db: %w", err)
	}
	return nil
}

func (r *Repository) CreateDatasetRun(ctx context.Context, in catalog.CreateDatasetRunInput) (catalog.DatasetRun, error) {
	query := `
INSERT INTO dataset_run (dataset_name, scale_factor, created_by)
VALUES ($1, $2, $3)
RETURNING run_id, created_at`

	run := catalog.DatasetRun{
		DatasetName: in.DatasetName,
		ScaleFactor: in.ScaleFactor,
		CreatedBy:   in.CreatedBy,
	}
	if err := r.db.QueryRowContext(ctx, query, in.DatasetName, in.ScaleFactor, in.CreatedBy).Scan(&run.RunID, &run.CreatedAt); err != nil {
		return catalog.DatasetRun{}, fmt.Errorf("create dataset run: %w", err)
	}
	return run, nil
}

func (r *Repository) RegisterDatasetFile(ctx context.Context, in catalog.RegisterDatasetFileInput) (catalog.DatasetFile, error) {
	format := in.Format
	if format == "" {
		format = "parquet"
	}

	query := `
INSERT INTO dataset_file (run_id, table_name, path, format, record_count, file_size_bytes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING file_id, created_at`

	file := catalog.DatasetFile{
		RunID:         in.RunID,
		TableName:     in.TableName,
		Path:          in.Path,
		Format:        format,
		RecordCount:   in.RecordCount,
		FileSizeBytes: in.FileSizeBytes,
	}
	if err := r.db.QueryRowContext(ctx, query, in.RunID, in.TableName, in.Path, format, in.RecordCount, in.FileSizeBytes).Scan(&file.FileID, &file.CreatedAt); err != nil {
		return catalog.DatasetFile{}, fmt.Errorf("register dataset file: %w", err)
	}
	return file, nil
}

func (r *Repository) GetLatestRun(ctx context.Context, datasetName string) (catalog.DatasetRun, error) {
	query := `
SELECT run_id, dataset_name, scale_factor, created_by, created_at
FROM dataset_run
WHERE dataset_name = $1
ORDER BY created_at DESC, run_id DESC
LIMIT 1`

	var run catalog.DatasetRun
	if err := r.db.QueryRowContext(ctx, query, datasetName).Scan(
		&run.RunID,
		&run.DatasetName,
		&run.ScaleFactor,
		&run.CreatedBy,
		&run.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.DatasetRun{}, catalog.ErrNotFound
		}
		return catalog.DatasetRun{}, fmt.Errorf("get latest dataset run: %w", err)
	}
	return run, nil
}

func (r *Repository) ListRunFiles(ctx context.Context, runID int64) ([]catalog.DatasetFile, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_id, run_id, table_name, path, format, record_count, file_size_bytes, created_at
FROM dataset_file
WHERE run_id = $1
ORDER BY table_name ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("list dataset files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make([]catalog.DatasetFile, 0)
	for rows.Next() {
		var file catalog.DatasetFile
		if err := rows.Scan(
			&file.FileID,
			&file.RunID,
			&file.TableName,
			&file.Path,
			&file.Format,
			&file.RecordCount,
			&file.FileSizeBytes,
			&file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dataset file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset file rows: %w", err)
	}
	return files, nil
}
