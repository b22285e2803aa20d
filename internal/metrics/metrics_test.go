package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/forest-bench/internal/ingest"
)

func TestCollector_Counts(t *testing.T) {
	c := New()
	c.FileRead(ingest.DatasetPerformance)
	c.FileRead(ingest.DatasetPerformance)
	c.FileSkipped(ingest.DatasetEvaluation, ingest.ReasonNotBenchmark)
	c.NestedDecodeFailed("phoneData")
	c.SetRows("llama_perf", 12)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.filesRead.WithLabelValues(ingest.DatasetPerformance)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filesSkipped.WithLabelValues(ingest.DatasetEvaluation, ingest.ReasonNotBenchmark)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.nestedFailures.WithLabelValues("phoneData")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.rows.WithLabelValues("llama_perf")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New()
	c.FileRead(ingest.DatasetEvaluation)
	c.SetRows("llama31_mmlu", 3)

	path := filepath.Join(t.TempDir(), "forest_bench.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `forest_bench_files_read_total{dataset="evaluation"} 1`)
	assert.Contains(t, string(data), `forest_bench_rows{sheet="llama31_mmlu"} 3`)
}
