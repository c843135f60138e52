package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/benchprep/benchprep/internal/catalog"
)

func TestCreateDatasetRun(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO dataset_run (dataset_name, scale_factor, created_by)
VALUES ($1, $2, $3)
RETURNING run_id, created_at`)).
		WithArgs("tpch_sf_1", 1.0, "benchprep-generate").
		WillReturnRows(sqlmock.NewRows([]string{"run_id", "created_at"}).AddRow(int64(7), now))

	run, err := repo.CreateDatasetRun(context.Background(), catalog.CreateDatasetRunInput{
		DatasetName: "tpch_sf_1",
		ScaleFactor: 1,
		CreatedBy:   "benchprep-generate",
	})
	if err != nil {
		t.Fatalf("CreateDatasetRun() error = %v", err)
	}
	if run.RunID != 7 {
		t.Fatalf("RunID = %d", run.RunID)
	}
	if !run.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", run.CreatedAt, now)
	}
	assertSQLMock(t, mock)
}

func TestRegisterDatasetFileDefaultsFormat(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`
INSERT INTO dataset_file (run_id, table_name, path, format, record_count, file_size_bytes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING file_id, created_at`)).
		WithArgs(int64(7), "lineitem", "tpch_sf_1/lineitem.parquet", "parquet", int64(6001215), int64(250000000)).
		WillReturnRows(sqlmock.NewRows([]string{"file_id", "created_at"}).AddRow(int64(42), now))

	file, err := repo.RegisterDatasetFile(context.Background(), catalog.RegisterDatasetFileInput{
		RunID:         7,
		TableName:     "lineitem",
		Path:          "tpch_sf_1/lineitem.parquet",
		RecordCount:   6001215,
		FileSizeBytes: 250000000,
	})
	if err != nil {
		t.Fatalf("RegisterDatasetFile() error = %v", err)
	}
	if file.FileID != 42 {
		t.Fatalf("FileID = %d", file.FileID)
	}
	if file.Format != "parquet" {
		t.Fatalf("Format = %q", file.Format)
	}
	assertSQLMock(t, mock)
}

func TestGetLatestRunReturnsNotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT run_id, dataset_name, scale_factor, created_by, created_at
FROM dataset_run
WHERE dataset_name = $1
ORDER BY created_at DESC, run_id DESC
LIMIT 1`)).
		WithArgs("tpch_sf_30").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLatestRun(context.Background(), "tpch_sf_30")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
	assertSQLMock(t, mock)
}

func TestListRunFiles(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT file_id, run_id, table_name, path, format, record_count, file_size_bytes, created_at
FROM dataset_file
WHERE run_id = $1
ORDER BY table_name ASC`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"file_id", "run_id", "table_name", "path", "format", "record_count", "file_size_bytes", "created_at",
		}).
			AddRow(int64(1), int64(7), "nation", "tpch_sf_1/nation.parquet", "parquet", int64(25), int64(2048), now).
			AddRow(int64(2), int64(7), "region", "tpch_sf_1/region.parquet", "parquet", int64(5), int64(1024), now))

	files, err := repo.ListRunFiles(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListRunFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d", len(files))
	}
	if files[0].TableName != "nation" || files[0].RecordCount != 25 {
		t.Fatalf("unexpected first file: %+v", files[0])
	}
	if files[1].TableName != "region" || files[1].FileSizeBytes != 1024 {
		t.Fatalf("unexpected second file: %+v", files[1])
	}
	assertSQLMock(t, mock)
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
