/*
PURPOSE:
  Defines the core data structures used throughout Forest Bench.
  These models represent raw on-device benchmark records and the flat
  rows derived from them.

REQUIREMENTS:
  User-specified:
  - One flat row per run, identified by (runId, runNum).
  - Evaluation rows carry a canonical "<model> <quant>" label.

  Implementation-discovered:
  - Battery diagnostics are zipped positionally, so key order of the
    source JSON must survive. Raw subtrees stay as gjson results.
  - Downstream writers index purely by column name, so every row must
    flatten to an ordered, collision-free mapping (Row).

ARCHITECTURE INTEGRATION:
  - Used by: internal/ingest, internal/derive, internal/pipeline, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Never mutate a record or row after it has been built.

USAGE:
  row := flat.Row()
  v, ok := row.Get("prefillSpeed")

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add field and extend Row().

RELATED FILES:
  - internal/model/row.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

import (
	"github.com/tidwall/gjson"
)

// RawBenchmarkRecord is one parsed performance JSON file.
type RawBenchmarkRecord struct {
	RunID   string `json:"runId"`
	File    string `json:"file"`
	Version string `json:"version"`
	Model   string `json:"model"`
	Family  string `json:"family,omitempty"` // llama.cpp records only
	UserID  string `json:"userId"`

	// PhoneData and Data hold the subtrees after the nested decode pass.
	// A subtree that failed to decode is still a gjson String.
	PhoneData gjson.Result `json:"-"`
	Data      gjson.Result `json:"-"`

	Raw []byte `json:"-"`
}

// Runs returns the per-run measurements in file order.
func (r *RawBenchmarkRecord) Runs() []gjson.Result {
	runs := r.Data.Get("runs")
	if !runs.IsArray() {
		return nil
	}
	return runs.Array()
}

// RAMStats holds the derived memory statistics of one run.
type RAMStats struct {
	Max    float64 `json:"ramMax"`
	Min    float64 `json:"ramMin"`
	Median float64 `json:"ramMedian"` // over the filtered subset
	Avg    float64 `json:"ramAvg"`    // over the filtered subset
	Std    float64 `json:"ramStd"`    // sample deviation over all samples
}

// FlattenedRunRow is the outcome of a single benchmark run.
type FlattenedRunRow struct {
	Application   string `json:"application"`
	RunID         string `json:"runId"`
	UserID        string `json:"userId"`
	Model         string `json:"model"`
	Family        string `json:"family"`
	DeviceModel   string `json:"deviceModel"`
	DeviceBrand   string `json:"deviceBrand"`
	SystemName    string `json:"systemName"`
	SystemVersion string `json:"systemVersion"`
	TotalMemory   any    `json:"totalMemory"`
	RunNum        int    `json:"runNum"`

	RAM RAMStats `json:"ram"`

	InputTokens   int64   `json:"inputTokens"`
	OutputTokens  int64   `json:"outputTokens"`
	TPS           float64 `json:"tps"`
	TTFT          float64 `json:"ttft"` // ms
	PrefillSpeed  float64 `json:"prefillSpeed"`
	InferenceTime float64 `json:"inferenceTime"` // ms

	BatteryBefore     float64 `json:"battery_pct_bef"`
	BatteryAfter      float64 `json:"battery_pct_aft"`
	BatteryTempBefore float64 `json:"battery_temp_bef"`
	BatteryTempAfter  float64 `json:"battery_temp_aft"`

	// Already-named dynamic columns (batInfo_<key>_bef, sensTemp_<name>_aft, ...).
	BatteryInfo []Field `json:"-"`
	SensorTemps []Field `json:"-"`
}

// Row flattens the run into its column order.
func (f FlattenedRunRow) Row() Row {
	var r Row
	r.Set("application", f.Application)
	r.Set("runId", f.RunID)
	r.Set("userId", f.UserID)
	r.Set("model", f.Model)
	r.Set("family", f.Family)
	r.Set("deviceModel", f.DeviceModel)
	r.Set("deviceBrand", f.DeviceBrand)
	r.Set("systemName", f.SystemName)
	r.Set("systemVersion", f.SystemVersion)
	r.Set("totalMemory", f.TotalMemory)
	r.Set("runNum", f.RunNum)
	r.Set("ramMax", f.RAM.Max)
	r.Set("ramMin", f.RAM.Min)
	r.Set("ramMedian", f.RAM.Median)
	r.Set("ramAvg", f.RAM.Avg)
	r.Set("ramStd", f.RAM.Std)
	r.Set("inputTokens", f.InputTokens)
	r.Set("outputTokens", f.OutputTokens)
	r.Set("tps", f.TPS)
	r.Set("ttft", f.TTFT)
	r.Set("prefillSpeed", f.PrefillSpeed)
	r.Set("inferenceTime", f.InferenceTime)
	r.Set("battery_pct_bef", f.BatteryBefore)
	r.Set("battery_pct_aft", f.BatteryAfter)
	r.Set("battery_temp_bef", f.BatteryTempBefore)
	r.Set("battery_temp_aft", f.BatteryTempAfter)
	for _, fld := range f.BatteryInfo {
		r.Set(fld.Key, fld.Value)
	}
	for _, fld := range f.SensorTemps {
		r.Set(fld.Key, fld.Value)
	}
	return r
}

// EvaluationResultRow is one accuracy benchmark file.
type EvaluationResultRow struct {
	Model   string  `json:"model"`
	Metrics []Field `json:"metrics"` // sorted by key
}

// Row flattens the evaluation with "model" first.
func (e EvaluationResultRow) Row() Row {
	var r Row
	r.Set("model", e.Model)
	for _, m := range e.Metrics {
		r.Set(m.Key, m.Value)
	}
	return r
}
