package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/forest-bench/internal/chart"
	"github.com/daryltucker/forest-bench/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.PerfDir = filepath.Join("testdata", "perf")
	cfg.EvalSets = []config.EvalSet{{Name: "llama31_mmlu", Dir: filepath.Join("testdata", "mmlu")}}
	cfg.OutputDir = filepath.Join(t.TempDir(), "results")
	return cfg
}

func TestRun_WritesEnabledSinks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Outputs.SQLite = "bench.db"
	cfg.Outputs.Charts = true
	cfg.Outputs.MetricsFile = "forest_bench.prom"
	require.NoError(t, Run(cfg))

	for _, name := range []string{
		"llama_perf.csv",
		"llama_perf.jsonl",
		"llama31_mmlu.csv",
		"llama31_mmlu.jsonl",
		"benchmark_results.xlsx",
		"bench.db",
		chart.PrefillVsTPSFile,
		chart.TPSByModelFile,
		"forest_bench.prom",
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}

	prom, err := os.ReadFile(filepath.Join(cfg.OutputDir, "forest_bench.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `forest_bench_files_skipped_total{dataset="performance",reason="parse"} 1`)
	assert.Contains(t, string(prom), `forest_bench_rows{sheet="llama_perf"} 3`)
}

func TestRun_DisabledSinks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Outputs = config.Outputs{CSV: true}
	require.NoError(t, Run(cfg))

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"llama_perf.csv", "llama31_mmlu.csv"}, names)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.RAMFilterRatio = 0
	assert.Error(t, Run(cfg))
	assert.NoDirExists(t, cfg.OutputDir)
}
