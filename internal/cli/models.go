/*
PURPOSE:
  Defines the 'models' subcommand.
  Shows how every raw model identifier in a perf directory is labelled.

REQUIREMENTS:
  User-specified:
  - List the models found in the benchmark exports.

  Implementation-discovered:
  - Useful validation step before a full run: new upstream model names
    show up here before they skew a sheet.

ARCHITECTURE INTEGRATION:
  - Calls: internal/ingest.Reader.ReadPerf(), internal/engine.Classify()

ERROR HANDLING:
  - Malformed files are skipped by the reader and logged.

IMPLEMENTATION RULES:
  - Simple tabular output to stdout.

USAGE:
  forest-bench models --perf-dir ./data/llama31_8b_perf

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/profile.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daryltucker/forest-bench/internal/engine"
	"github.com/daryltucker/forest-bench/internal/ingest"
	"github.com/daryltucker/forest-bench/internal/output"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List raw model identifiers and their canonical labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if perfDirOverride != "" {
			cfg.PerfDir = perfDirOverride
		}

		records, err := ingest.NewReader(output.Logger, nil).ReadPerf(cfg.PerfDir)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APPLICATION\tRAW\tLABEL")
		seen := make(map[string]bool)
		for _, rec := range records {
			p := engine.Classify(rec.Version)
			key := p.Name + "\x00" + rec.Model
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, rec.Model, p.Normalize(rec.Model))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&perfDirOverride, "perf-dir", "", "Directory of performance exports")
}
