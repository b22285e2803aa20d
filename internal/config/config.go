/*
PURPOSE:
  Defines the configuration structure and loading logic for Forest Bench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the input directories and output sinks.
  - Derivation constants (RAM filter ratio, sentinels, denylists) live here,
    not in the deriver.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variables overrides (FOREST_BENCH_...),
    optionally sourced from a .env file.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/pipeline
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing config file falls back to defaults.
  - Validate() rejects values that would silently corrupt derived metrics.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults must reproduce the reference aggregation exactly.

USAGE:
  cfg, err := config.Load("forest_bench.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/run.go
  - internal/pipeline/runner.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EvalSet names one directory of accuracy-evaluation exports.
type EvalSet struct {
	Name string `yaml:"name"` // sheet name, e.g. llama31_mmlu
	Dir  string `yaml:"dir"`
}

// Outputs toggles the result sinks.
type Outputs struct {
	CSV         bool   `yaml:"csv"`
	JSONL       bool   `yaml:"jsonl"`
	XLSX        string `yaml:"xlsx"`   // workbook filename, empty disables
	SQLite      string `yaml:"sqlite"` // database path, empty disables
	Charts      bool   `yaml:"charts"`
	MetricsFile string `yaml:"metrics_file"` // Prometheus textfile, empty disables
}

// Config represents the full configuration for Forest Bench.
type Config struct {
	PerfDir   string    `yaml:"perf_dir"`
	PerfSheet string    `yaml:"perf_sheet"`
	EvalSets  []EvalSet `yaml:"eval_sets"`
	// EvalBenchmarks are the filename tokens that mark an evaluation export.
	EvalBenchmarks []string `yaml:"eval_benchmarks"`
	NotApplicable  string   `yaml:"not_applicable"`

	OutputDir string  `yaml:"output_dir"`
	Outputs   Outputs `yaml:"outputs"`

	RAMFilterRatio  float64  `yaml:"ram_filter_ratio"`
	BatterySkipKeys []string `yaml:"battery_skip_keys"`
	SensorSentinel  string   `yaml:"sensor_sentinel"`
	// LegacySensorGuard flattens sensor temperatures only when batteryInfos is present.
	LegacySensorGuard bool `yaml:"legacy_sensor_guard"`
	// UnknownDeviceLabel replaces missing device model/brand. Empty makes it fatal.
	UnknownDeviceLabel string `yaml:"unknown_device_label"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PerfDir:   "./data/llama31_8b_perf",
		PerfSheet: "llama_perf",
		EvalSets: []EvalSet{
			{Name: "llama31_mmlu", Dir: "./data/llama31_8b_mmlu"},
			{Name: "llama31_ifeval", Dir: "./data/llama31_8b_ifeval"},
			{Name: "llama32_mmlu", Dir: "./data/llama32_3b_mmlu"},
			{Name: "llama32_ifeval", Dir: "./data/llama32_3b_ifeval"},
		},
		EvalBenchmarks: []string{"MMLU", "IFEval"},
		NotApplicable:  "N/A",
		OutputDir:      "./results",
		Outputs: Outputs{
			CSV:   true,
			JSONL: true,
			XLSX:  "benchmark_results.xlsx",
		},
		RAMFilterRatio:  0.7,
		BatterySkipKeys: []string{"isCharging", "voltageV", "currentDrawMa"},
		SensorSentinel:  "273000",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional; only a malformed file is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"forest_bench.yaml", "bench.yaml"}
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FOREST_BENCH_PERF_DIR"); v != "" {
		c.PerfDir = v
	}
	if v := os.Getenv("FOREST_BENCH_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("FOREST_BENCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if c.PerfDir == "" {
		return errors.New("perf_dir is required")
	}
	if c.RAMFilterRatio <= 0 || c.RAMFilterRatio > 1 {
		return fmt.Errorf("ram_filter_ratio must be in (0, 1], got %v", c.RAMFilterRatio)
	}
	if c.PerfSheet == "" {
		return errors.New("perf_sheet must not be empty")
	}
	seen := map[string]bool{c.PerfSheet: true}
	for _, set := range c.EvalSets {
		if set.Name == "" || set.Dir == "" {
			return fmt.Errorf("eval set %q: name and dir are required", set.Name)
		}
		if seen[set.Name] {
			return fmt.Errorf("duplicate sheet name %q", set.Name)
		}
		seen[set.Name] = true
	}
	return nil
}
