// Package convert rewrites pipe-delimited TPC-H .tbl files into .csv
// siblings. Each record in a .tbl file is terminated by the delimiter, so
// the conversion strips the bounding delimiter characters from every line;
// interior delimiter bytes are preserved untouched and field content is
// carried over byte for byte.
package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benchprep/benchprep/internal/observability"
)

const (
	SourceExt = ".tbl"
	TargetExt = ".csv"
	Delimiter = "|"
)

type Converter struct {
	Logger *slog.Logger
}

type Report struct {
	FilesConverted int
	RecordsWritten int
}

// StripOuterDelimiters removes all leading and trailing delimiter
// characters from a record. Idempotent: stripping an already-stripped line
// is a no-op.
func StripOuterDelimiters(line, delim string) string {
	return strings.Trim(line, delim)
}

// DerivedPath maps a source file path to its conversion target.
// Returns false for paths that do not carry the source extension.
func DerivedPath(path string) (string, bool) {
	if !strings.HasSuffix(path, SourceExt) {
		return "", false
	}
	return strings.TrimSuffix(path, SourceExt) + TargetExt, true
}

// ConvertDir converts every .tbl file directly inside dir, writing a .csv
// sibling for each. Existing .csv files are overwritten unconditionally.
// The run aborts on the first I/O failure.
func (c *Converter) ConvertDir(dir string) (Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var report Report
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		target, ok := DerivedPath(entry.Name())
		if !ok {
			continue
		}

		sourcePath := filepath.Join(dir, entry.Name())
		targetPath := filepath.Join(dir, target)
		records, err := ConvertFile(sourcePath, targetPath)
		if err != nil {
			return Report{}, err
		}

		report.FilesConverted++
		report.RecordsWritten += records
		observability.RecordTableConverted(records)
		if c.Logger != nil {
			c.Logger.Info("converted table file",
				slog.String("source", sourcePath),
				slog.String("target", targetPath),
				slog.Int("records", records),
			)
		}
	}
	return report, nil
}

// ConvertFile reads sourcePath fully, strips the bounding delimiters from
// every record, and writes the result to targetPath joined by newlines
// with no trailing newline. Returns the number of records written.
func ConvertFile(sourcePath, targetPath string) (int, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("read source file %q: %w", sourcePath, err)
	}

	lines := splitLines(string(data))
	for i, line := range lines {
		lines[i] = StripOuterDelimiters(line, Delimiter)
	}

	if err := os.WriteFile(targetPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return 0, fmt.Errorf("write derived file %q: %w", targetPath, err)
	}
	return len(lines), nil
}

// splitLines splits on newlines, tolerating CRLF endings and dropping the
// empty segment a trailing newline would otherwise produce.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
