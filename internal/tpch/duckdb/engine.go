// Package duckdb materializes the TPC-H benchmark schema through DuckDB's
// tpch extension and dumps each generated table to parquet with COPY.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/benchprep/benchprep/internal/tpch"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Generate opens an in-memory DuckDB handle scoped to this call, runs
// dbgen at the given scale factor, and COPYs every generated table to
// <outputDir>/<table>.parquet. Tables are discovered through a metadata
// query rather than a fixed list so a schema change in the extension does
// not go unnoticed.
func (e *Engine) Generate(ctx context.Context, scaleFactor float64, outputDir string) ([]tpch.TableDump, error) {
	if scaleFactor <= 0 {
		return nil, fmt.Errorf("scale factor must be > 0")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, "INSTALL tpch; LOAD tpch"); err != nil {
		return nil, fmt.Errorf("load tpch extension: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CALL dbgen(sf = %s)", formatScaleFactor(scaleFactor))); err != nil {
		return nil, fmt.Errorf("run dbgen at sf %v: %w", scaleFactor, err)
	}

	tableNames, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(tableNames) == 0 {
		return nil, fmt.Errorf("dbgen produced no tables")
	}

	dumps := make([]tpch.TableDump, 0, len(tableNames))
	for _, tableName := range tableNames {
		dump, err := dumpTable(ctx, db, tableName, outputDir)
		if err != nil {
			return nil, err
		}
		dumps = append(dumps, dump)
	}
	return dumps, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = 'main'
ORDER BY table_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list generated tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tableNames := make([]string, 0)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tableNames = append(tableNames, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table names: %w", err)
	}
	return tableNames, nil
}

func dumpTable(ctx context.Context, db *sql.DB, tableName, outputDir string) (tpch.TableDump, error) {
	targetPath := filepath.Join(outputDir, tableName+".parquet")

	copySQL := fmt.Sprintf(`COPY (SELECT * FROM %s) TO %s (FORMAT PARQUET)`, quoteIdent(tableName), quoteString(targetPath))
	if _, err := db.ExecContext(ctx, copySQL); err != nil {
		return tpch.TableDump{}, fmt.Errorf("dump table %q to parquet: %w", tableName, err)
	}

	var recordCount int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(tableName))
	if err := db.QueryRowContext(ctx, countSQL).Scan(&recordCount); err != nil {
		return tpch.TableDump{}, fmt.Errorf("count rows of table %q: %w", tableName, err)
	}

	stat, err := os.Stat(targetPath)
	if err != nil {
		return tpch.TableDump{}, fmt.Errorf("stat parquet file %q: %w", targetPath, err)
	}

	return tpch.TableDump{
		TableName:     tableName,
		Path:          targetPath,
		RecordCount:   recordCount,
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatScaleFactor(scaleFactor float64) string {
	return strconv.FormatFloat(scaleFactor, 'f', -1, 64)
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteString(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `''`) + `'`
}
