package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daryltucker/forest-bench/internal/ingest"
)

// Collector counts ingest events and sheet sizes for one pipeline run.
// It implements ingest.Observer.
type Collector struct {
	Registry *prometheus.Registry

	filesRead      *prometheus.CounterVec
	filesSkipped   *prometheus.CounterVec
	nestedFailures *prometheus.CounterVec
	rows           *prometheus.GaugeVec
}

var _ ingest.Observer = (*Collector)(nil)

// New registers the pipeline metrics on a fresh registry.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		filesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forest_bench_files_read_total",
			Help: "Benchmark files successfully read.",
		}, []string{"dataset"}),
		filesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forest_bench_files_skipped_total",
			Help: "Benchmark files skipped, by reason.",
		}, []string{"dataset", "reason"}),
		nestedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forest_bench_nested_decode_failures_total",
			Help: "Nested JSON-string fields left undecoded.",
		}, []string{"field"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "forest_bench_rows",
			Help: "Rows written per output sheet.",
		}, []string{"sheet"}),
	}
	c.Registry.MustRegister(c.filesRead, c.filesSkipped, c.nestedFailures, c.rows)
	return c
}

func (c *Collector) FileRead(dataset string) {
	c.filesRead.WithLabelValues(dataset).Inc()
}

func (c *Collector) FileSkipped(dataset, reason string) {
	c.filesSkipped.WithLabelValues(dataset, reason).Inc()
}

func (c *Collector) NestedDecodeFailed(field string) {
	c.nestedFailures.WithLabelValues(field).Inc()
}

// SetRows records the final size of a sheet.
func (c *Collector) SetRows(sheet string, n int) {
	c.rows.WithLabelValues(sheet).Set(float64(n))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
