// Package tpch holds the types and helpers shared by the TPC-H benchmark
// materializer: the dump descriptor reported by the generation engine, the
// output directory naming scheme, and parquet verification.
package tpch

import (
	"context"
	"strconv"
)

// TableDump describes one benchmark table serialized to a parquet file.
type TableDump struct {
	TableName     string
	Path          string
	RecordCount   int64
	FileSizeBytes int64
}

// Engine synthesizes the TPC-H schema at the given scale factor and dumps
// every generated table to a parquet file under outputDir. The returned
// dumps carry engine-reported row counts.
type Engine interface {
	Generate(ctx context.Context, scaleFactor float64, outputDir string) ([]TableDump, error)
}

// OutputDirName derives the dataset directory name for a scale factor,
// using the shortest decimal rendering: 1 -> tpch_sf_1, 0.01 -> tpch_sf_0.01.
func OutputDirName(scaleFactor float64) string {
	return "tpch_sf_" + strconv.FormatFloat(scaleFactor, 'f', -1, 64)
}
