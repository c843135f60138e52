package tpch

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

type ParquetInfo struct {
	RowCount      int64
	FileSizeBytes int64
}

// InspectParquetFile opens a parquet file and reports its row count and
// on-disk size from the file footer, without materializing any rows.
func InspectParquetFile(path string) (ParquetInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return ParquetInfo{}, fmt.Errorf("open parquet file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return ParquetInfo{}, fmt.Errorf("stat parquet file %q: %w", path, err)
	}

	parquetFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return ParquetInfo{}, fmt.Errorf("read parquet footer %q: %w", path, err)
	}

	return ParquetInfo{
		RowCount:      parquetFile.NumRows(),
		FileSizeBytes: stat.Size(),
	}, nil
}
