/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full aggregation and writes the result tables.

REQUIREMENTS:
  User-specified:
  - Aggregate performance and evaluation directories.
  - Specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.
  - --eval replaces the configured evaluation sets as a whole.

ARCHITECTURE INTEGRATION:
  - Calls: internal/pipeline.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails, a flag is malformed or the run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> pipeline.Run.

USAGE:
  forest-bench run --perf-dir ./data/perf --eval llama31_mmlu=./data/mmlu

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go
  - internal/pipeline/runner.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daryltucker/forest-bench/internal/config"
	"github.com/daryltucker/forest-bench/internal/pipeline"
)

var (
	perfDirOverride   string
	evalOverride      []string
	outputOverride    string
	sqliteOverride    string
	noChartsOverride  bool
	chartsOverride    bool
	legacySensorGuard bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate benchmark exports into result tables",
	Long: `Reads every performance export in the perf directory and every evaluation
export in the configured evaluation directories, then writes one table per
dataset:

1. Performance: one row per benchmark run, sorted by application, device,
   family, model and prompt length.
2. Evaluations: one row per evaluation file, ordered by quantization.

Tables are written as CSV and JSON Lines, and as sheets of one workbook.
SQLite, charts and a Prometheus textfile are optional.

A malformed JSON file is logged and skipped. A record missing a required
field, or a run with zero time-to-first-token, stops the run.`,
	Example: `  # Run with defaults (uses forest_bench.yaml)
  forest-bench run

  # Override the perf directory and output directory
  forest-bench run --perf-dir ./data/llama31_8b_perf -o ./results

  # Replace the evaluation sets
  forest-bench run --eval llama31_mmlu=./data/llama31_8b_mmlu --eval llama31_ifeval=./data/llama31_8b_ifeval

  # Also keep a history of runs in SQLite
  forest-bench run --sqlite bench.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// 2. Overrides
		if perfDirOverride != "" {
			cfg.PerfDir = perfDirOverride
		}
		if len(evalOverride) > 0 {
			sets, err := parseEvalSets(evalOverride)
			if err != nil {
				return err
			}
			cfg.EvalSets = sets
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if sqliteOverride != "" {
			cfg.Outputs.SQLite = sqliteOverride
		}
		if chartsOverride {
			cfg.Outputs.Charts = true
		}
		if noChartsOverride {
			cfg.Outputs.Charts = false
		}
		if legacySensorGuard {
			cfg.LegacySensorGuard = true
		}

		// 3. Execution
		return pipeline.Run(cfg)
	},
}

// parseEvalSets parses repeated name=dir flag values.
func parseEvalSets(values []string) ([]config.EvalSet, error) {
	sets := make([]config.EvalSet, 0, len(values))
	for _, v := range values {
		name, dir, ok := strings.Cut(v, "=")
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("invalid --eval %q: expected name=dir", v)
		}
		sets = append(sets, config.EvalSet{Name: name, Dir: dir})
	}
	return sets, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&perfDirOverride, "perf-dir", "", "Directory of performance exports")
	runCmd.Flags().StringArrayVar(&evalOverride, "eval", nil, "Evaluation set as sheet=dir (repeatable, replaces config)")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for result tables")
	runCmd.Flags().StringVar(&sqliteOverride, "sqlite", "", "SQLite database to append this run to")
	runCmd.Flags().BoolVar(&chartsOverride, "charts", false, "Render PNG charts of the performance sheet")
	runCmd.Flags().BoolVar(&noChartsOverride, "no-charts", false, "Skip chart rendering even if enabled in config")
	runCmd.Flags().BoolVar(&legacySensorGuard, "legacy-sensor-guard", false, "Only flatten sensor temperatures for runs with batteryInfos")
}
