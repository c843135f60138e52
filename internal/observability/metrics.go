package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	tablesConvertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchprep_tables_converted_total",
			Help: "Total number of .tbl files converted to .csv.",
		},
	)
	recordsConvertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchprep_records_converted_total",
			Help: "Total number of records written across converted files.",
		},
	)
	tablesMaterializedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchprep_tables_materialized_total",
			Help: "Total number of benchmark tables dumped to parquet.",
		},
	)
	rowsMaterializedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchprep_rows_materialized_total",
			Help: "Total number of rows dumped to parquet.",
		},
	)
	bytesMaterializedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchprep_bytes_materialized_total",
			Help: "Total size in bytes of parquet files written.",
		},
	)
	runDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "benchprep_run_duration_seconds",
			Help:    "Duration of one-shot runs by tool.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
		},
		[]string{"tool"},
	)
)

func init() {
	prometheus.MustRegister(
		tablesConvertedTotal,
		recordsConvertedTotal,
		tablesMaterializedTotal,
		rowsMaterializedTotal,
		bytesMaterializedTotal,
		runDurationSeconds,
	)
}

func RecordTableConverted(records int) {
	tablesConvertedTotal.Inc()
	recordsConvertedTotal.Add(float64(records))
}

func RecordTableMaterialized(rows, sizeBytes int64) {
	tablesMaterializedTotal.Inc()
	rowsMaterializedTotal.Add(float64(rows))
	bytesMaterializedTotal.Add(float64(sizeBytes))
}

func ObserveRunDuration(tool string, duration time.Duration) {
	runDurationSeconds.WithLabelValues(tool).Observe(duration.Seconds())
}

// WriteMetricsFile dumps the default registry in text exposition format,
// suitable for the node_exporter textfile collector. The write goes through
// a temp file plus rename so the collector never reads a partial dump.
func WriteMetricsFile(path string) error {
	return writeMetricsFile(path, prometheus.DefaultGatherer)
}

func writeMetricsFile(path string, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".benchprep-metrics-")
	if err != nil {
		return fmt.Errorf("create metrics temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	encoder := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("encode metric family %q: %w", family.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close metrics temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move metrics file to %q: %w", path, err)
	}
	return nil
}
