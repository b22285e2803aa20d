/*
PURPOSE:
  Explicit pipeline entry point. Reads the performance directory and every
  evaluation directory, flattens and derives, and returns both datasets.

REQUIREMENTS:
  User-specified:
  - Directory paths are parameters; nothing depends on process-global state.
  - Performance rows sorted by (application, deviceModel, family, model, inputTokens).

  Implementation-discovered:
  - The sort must be stable so runs keep file order inside a group.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline/runner.go, tests
  - Uses: internal/ingest, internal/derive, internal/model

ERROR HANDLING:
  - File-level JSON failures are skipped by the reader.
  - Record-level failures halt the build (ingest.RecordError).

IMPLEMENTATION RULES:
  - No clocks or randomness in rows; Build must be deterministic.

USAGE:
  ds, err := pipeline.Build(pipeline.OptionsFromConfig(cfg))

SELF-HEALING INSTRUCTIONS:
  - If a new dataset is added, give it its own field on Datasets.

RELATED FILES:
  - internal/pipeline/runner.go

MAINTENANCE:
  - Keep sort keys in sync with the reporting notebook.
*/

package pipeline

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/daryltucker/forest-bench/internal/config"
	"github.com/daryltucker/forest-bench/internal/derive"
	"github.com/daryltucker/forest-bench/internal/ingest"
	"github.com/daryltucker/forest-bench/internal/model"
	"github.com/daryltucker/forest-bench/internal/output"
)

// Options are the inputs of one build.
type Options struct {
	PerfDir   string
	PerfSheet string
	EvalSets  []config.EvalSet

	Benchmarks    []string
	NotApplicable string
	Derive        derive.Options

	Logger   *slog.Logger
	Observer ingest.Observer
}

// EvalSet is one evaluation dataset, named after its sheet.
type EvalSet struct {
	Name string
	Rows []model.EvaluationResultRow
}

// Datasets is the outcome of a build.
type Datasets struct {
	PerfSheet   string
	Performance []model.FlattenedRunRow
	Evaluations []EvalSet
}

// OptionsFromConfig maps a loaded configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PerfDir:       cfg.PerfDir,
		PerfSheet:     cfg.PerfSheet,
		EvalSets:      cfg.EvalSets,
		Benchmarks:    cfg.EvalBenchmarks,
		NotApplicable: cfg.NotApplicable,
		Derive: derive.Options{
			RAMFilterRatio:     cfg.RAMFilterRatio,
			BatterySkipKeys:    cfg.BatterySkipKeys,
			SensorSentinel:     cfg.SensorSentinel,
			LegacySensorGuard:  cfg.LegacySensorGuard,
			UnknownDeviceLabel: cfg.UnknownDeviceLabel,
		},
		Logger: output.Logger,
	}
}

// Build produces the performance and evaluation datasets.
func Build(opts Options) (*Datasets, error) {
	logger := opts.Logger
	if logger == nil {
		logger = output.Logger
	}
	reader := ingest.NewReader(logger, opts.Observer)
	if len(opts.Benchmarks) > 0 {
		reader.Benchmarks = opts.Benchmarks
	}
	if opts.NotApplicable != "" {
		reader.NotApplicable = opts.NotApplicable
	}

	logger.Info("Reading performance records", "dir", opts.PerfDir)
	records, err := reader.ReadPerf(opts.PerfDir)
	if err != nil {
		return nil, err
	}

	ds := &Datasets{PerfSheet: opts.PerfSheet}
	for i := range records {
		rows, err := derive.FlattenRecord(&records[i], opts.Derive)
		if err != nil {
			return nil, err
		}
		ds.Performance = append(ds.Performance, rows...)
	}
	SortPerformance(ds.Performance)
	logger.Info("Flattened performance runs", "files", len(records), "rows", len(ds.Performance))

	for _, set := range opts.EvalSets {
		logger.Info("Reading evaluation results", "sheet", set.Name, "dir", set.Dir)
		rows, err := reader.ReadEval(set.Dir)
		if err != nil {
			return nil, fmt.Errorf("eval set %s: %w", set.Name, err)
		}
		ds.Evaluations = append(ds.Evaluations, EvalSet{Name: set.Name, Rows: rows})
	}

	return ds, nil
}

// SortPerformance orders rows by application, device, family, model and
// prompt length. Ties keep their input order.
func SortPerformance(rows []model.FlattenedRunRow) {
	slices.SortStableFunc(rows, func(a, b model.FlattenedRunRow) int {
		return cmp.Or(
			cmp.Compare(a.Application, b.Application),
			cmp.Compare(a.DeviceModel, b.DeviceModel),
			cmp.Compare(a.Family, b.Family),
			cmp.Compare(a.Model, b.Model),
			cmp.Compare(a.InputTokens, b.InputTokens),
		)
	})
}

// Sheets lays the datasets out as named tables, performance first.
func (ds *Datasets) Sheets() []output.Sheet {
	perf := make([]model.Row, 0, len(ds.Performance))
	for _, r := range ds.Performance {
		perf = append(perf, r.Row())
	}
	sheets := []output.Sheet{{Name: ds.PerfSheet, Rows: perf}}

	for _, set := range ds.Evaluations {
		rows := make([]model.Row, 0, len(set.Rows))
		for _, r := range set.Rows {
			rows = append(rows, r.Row())
		}
		sheets = append(sheets, output.Sheet{Name: set.Name, Rows: rows})
	}
	return sheets
}
