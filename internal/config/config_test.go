package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
perf_dir: ./phones
eval_sets:
  - name: mmlu
    dir: ./mmlu
ram_filter_ratio: 0.5
legacy_sensor_guard: true
outputs:
  csv: false
  sqlite: bench.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./phones", cfg.PerfDir)
	assert.Equal(t, []EvalSet{{Name: "mmlu", Dir: "./mmlu"}}, cfg.EvalSets)
	assert.Equal(t, 0.5, cfg.RAMFilterRatio)
	assert.True(t, cfg.LegacySensorGuard)
	assert.False(t, cfg.Outputs.CSV)
	assert.Equal(t, "bench.db", cfg.Outputs.SQLite)
	// untouched defaults survive
	assert.Equal(t, "llama_perf", cfg.PerfSheet)
	assert.Equal(t, []string{"isCharging", "voltageV", "currentDrawMa"}, cfg.BatterySkipKeys)
}

func TestLoad_SearchesDefaultNames(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("bench.yaml", []byte("perf_sheet: perf\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "perf", cfg.PerfSheet)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("perf_dir: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOREST_BENCH_PERF_DIR", "/srv/perf")
	t.Setenv("FOREST_BENCH_OUTPUT_DIR", "/srv/out")
	t.Setenv("FOREST_BENCH_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/perf", cfg.PerfDir)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("FOREST_BENCH_PERF_DIR=/from/dotenv\n"), 0644))
	// godotenv.Load never overrides variables that are already set.
	t.Setenv("FOREST_BENCH_PERF_DIR", "")
	os.Unsetenv("FOREST_BENCH_PERF_DIR")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.PerfDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero ratio", func(c *Config) { c.RAMFilterRatio = 0 }, "ram_filter_ratio"},
		{"ratio above one", func(c *Config) { c.RAMFilterRatio = 1.5 }, "ram_filter_ratio"},
		{"no perf dir", func(c *Config) { c.PerfDir = "" }, "perf_dir"},
		{"empty sheet", func(c *Config) { c.PerfSheet = "" }, "perf_sheet"},
		{"duplicate sheet", func(c *Config) {
			c.EvalSets = append(c.EvalSets, EvalSet{Name: "llama_perf", Dir: "x"})
		}, "duplicate sheet name"},
		{"eval set without dir", func(c *Config) {
			c.EvalSets = []EvalSet{{Name: "mmlu"}}
		}, "name and dir are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
