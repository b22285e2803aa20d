/*
PURPOSE:
  High-level runner that orchestrates one aggregation run.
  Build datasets -> write every enabled sink -> report.

REQUIREMENTS:
  User-specified:
  - One table per dataset (CSV, JSON Lines, workbook sheet).

  Implementation-discovered:
  - Metrics are collected during ingest, so the collector is the reader's Observer.
  - SQLite keeps every run as a separate import for history.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/pipeline.Build, internal/output, internal/store,
    internal/chart, internal/metrics

ERROR HANDLING:
  - Build errors halt before any sink is written.
  - Sink errors are returned; sinks already written stay on disk.
  - An empty performance dataset skips the charts with a warning.

IMPLEMENTATION RULES:
  - Relative sink paths resolve against output_dir.

USAGE:
  pipeline.Run(cfg)

SELF-HEALING INSTRUCTIONS:
  - If a sink is added, give it an Outputs toggle in internal/config.

RELATED FILES:
  - internal/pipeline/pipeline.go
  - internal/config/config.go

MAINTENANCE:
  - Update sink order if a sink starts depending on another.
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daryltucker/forest-bench/internal/chart"
	"github.com/daryltucker/forest-bench/internal/config"
	"github.com/daryltucker/forest-bench/internal/metrics"
	"github.com/daryltucker/forest-bench/internal/output"
	"github.com/daryltucker/forest-bench/internal/store"
)

// Run executes the full aggregation and writes every enabled sink.
func Run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	collector := metrics.New()
	opts := OptionsFromConfig(cfg)
	opts.Observer = collector

	ds, err := Build(opts)
	if err != nil {
		return err
	}
	sheets := ds.Sheets()

	for _, sh := range sheets {
		collector.SetRows(sh.Name, len(sh.Rows))

		if cfg.Outputs.CSV {
			path := filepath.Join(cfg.OutputDir, sh.Name+".csv")
			if err := output.WriteCSV(path, sh.Rows); err != nil {
				return fmt.Errorf("failed to write CSV at %s: %w", path, err)
			}
		}
		if cfg.Outputs.JSONL {
			path := filepath.Join(cfg.OutputDir, sh.Name+".jsonl")
			if err := output.WriteJSONL(path, sh.Rows); err != nil {
				return fmt.Errorf("failed to write JSON at %s: %w", path, err)
			}
		}
		output.Logger.Info("Sheet written", "sheet", sh.Name, "rows", len(sh.Rows))
	}

	if cfg.Outputs.XLSX != "" {
		path := resolve(cfg.OutputDir, cfg.Outputs.XLSX)
		if err := output.WriteWorkbook(path, sheets); err != nil {
			return fmt.Errorf("failed to write workbook at %s: %w", path, err)
		}
		output.Logger.Info("Workbook written", "path", path, "sheets", len(sheets))
	}

	if cfg.Outputs.SQLite != "" {
		path := resolve(cfg.OutputDir, cfg.Outputs.SQLite)
		id, err := writeStore(path, sheets)
		if err != nil {
			return err
		}
		output.Logger.Info("Import stored", "path", path, "import_id", id)
	}

	if cfg.Outputs.Charts {
		paths, err := chart.WriteAll(cfg.OutputDir, ds.Performance)
		switch {
		case errors.Is(err, chart.ErrNoRows):
			output.Logger.Warn("Skipping charts", "reason", err)
		case err != nil:
			return err
		default:
			output.Logger.Info("Charts written", "files", paths)
		}
	}

	if cfg.Outputs.MetricsFile != "" {
		if err := collector.WriteTextfile(resolve(cfg.OutputDir, cfg.Outputs.MetricsFile)); err != nil {
			return err
		}
	}

	output.Logger.Info("Aggregation complete",
		"performance_rows", len(ds.Performance),
		"eval_sheets", len(ds.Evaluations),
		"output_dir", cfg.OutputDir,
	)
	return nil
}

func writeStore(path string, sheets []output.Sheet) (string, error) {
	s, err := store.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	defer s.Close()

	return s.WriteImport(context.Background(), sheets)
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
