/*
PURPOSE:
  Run Flattener & Metric Deriver. Turns each run of a raw benchmark record
  into one model.FlattenedRunRow with derived metrics.

REQUIREMENTS:
  User-specified:
  - Exactly one row per run, runNum is 1-indexed.
  - RAM: median/mean over the >= 70% of max subset, stdev over all samples.
  - prefillSpeed = inputTokens / (ttft / 1000).
  - batInfo_<key>_bef/_aft and sensTemp_<name>_bef/_aft flattened positionally.

  Implementation-discovered:
  - Sensor flattening used to share the batteryInfos presence check. The
    guards are independent unless Options.LegacySensorGuard is set.
  - Device model/brand moved keys between app releases (FirstOf).

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Uses: internal/engine, internal/model, internal/ingest (error taxonomy)

ERROR HANDLING:
  - Any missing required field aborts the record (wrapped ingest.ErrMissingField).
  - ttft == 0 aborts with ingest.ErrZeroTTFT; no Inf/NaN reaches a row.
  - Errors carry file and run number (ingest.RecordError).

IMPLEMENTATION RULES:
  - Never zero-fill. A corrupted row would silently skew aggregates.

USAGE:
  rows, err := derive.FlattenRecord(&rec, derive.DefaultOptions())

SELF-HEALING INSTRUCTIONS:
  - If an app adds a volatile battery field, add it to BatterySkipKeys.

RELATED FILES:
  - internal/derive/ram.go
  - internal/derive/sensors.go

MAINTENANCE:
  - Keep field names in sync with model.FlattenedRunRow.Row().
*/

package derive

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/daryltucker/forest-bench/internal/engine"
	"github.com/daryltucker/forest-bench/internal/ingest"
	"github.com/daryltucker/forest-bench/internal/model"
)

// Options tune the derivations.
type Options struct {
	RAMFilterRatio     float64
	BatterySkipKeys    []string
	SensorSentinel     string
	LegacySensorGuard  bool
	UnknownDeviceLabel string
}

// DefaultOptions reproduces the reference aggregation.
func DefaultOptions() Options {
	return Options{
		RAMFilterRatio:  0.7,
		BatterySkipKeys: []string{"isCharging", "voltageV", "currentDrawMa"},
		SensorSentinel:  "273000",
	}
}

// FlattenRecord flattens every run of rec.
func FlattenRecord(rec *model.RawBenchmarkRecord, opts Options) ([]model.FlattenedRunRow, error) {
	base, err := baseRow(rec, opts)
	if err != nil {
		return nil, &ingest.RecordError{File: rec.File, Err: err}
	}

	if !rec.Data.Get("runs").IsArray() {
		return nil, &ingest.RecordError{File: rec.File, Err: ingest.MissingField("data.runs")}
	}

	var rows []model.FlattenedRunRow
	for i, run := range rec.Runs() {
		row, err := FlattenRun(base, run, i+1, opts)
		if err != nil {
			return nil, &ingest.RecordError{File: rec.File, RunNum: i + 1, Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// baseRow fills the identification columns shared by all runs of rec.
func baseRow(rec *model.RawBenchmarkRecord, opts Options) (model.FlattenedRunRow, error) {
	root := gjson.ParseBytes(rec.Raw)

	if _, err := present(root, "model"); err != nil {
		return model.FlattenedRunRow{}, err
	}
	userID, err := present(root, "userId")
	if err != nil {
		return model.FlattenedRunRow{}, err
	}

	profile := engine.Classify(rec.Version)
	family, err := profile.Family(rec)
	if err != nil {
		return model.FlattenedRunRow{}, err
	}

	phone := rec.PhoneData
	deviceModel, err := device(phone, opts, "deviceModel", "model")
	if err != nil {
		return model.FlattenedRunRow{}, err
	}
	deviceBrand, err := device(phone, opts, "deviceBrand", "brand")
	if err != nil {
		return model.FlattenedRunRow{}, err
	}
	systemName, err := present(phone, "systemName")
	if err != nil {
		return model.FlattenedRunRow{}, fmt.Errorf("phoneData: %w", err)
	}
	systemVersion, err := present(phone, "systemVersion")
	if err != nil {
		return model.FlattenedRunRow{}, fmt.Errorf("phoneData: %w", err)
	}
	totalMemory, err := present(phone, "totalMemory")
	if err != nil {
		return model.FlattenedRunRow{}, fmt.Errorf("phoneData: %w", err)
	}

	return model.FlattenedRunRow{
		Application:   profile.Name,
		RunID:         rec.RunID,
		UserID:        userID.String(),
		Model:         profile.Normalize(rec.Model),
		Family:        family,
		DeviceModel:   deviceModel,
		DeviceBrand:   deviceBrand,
		SystemName:    systemName.String(),
		SystemVersion: systemVersion.String(),
		TotalMemory:   totalMemory.Value(),
	}, nil
}

func device(phone gjson.Result, opts Options, keys ...string) (string, error) {
	if v, ok := FirstOf(phone, keys...); ok {
		return v.String(), nil
	}
	if opts.UnknownDeviceLabel != "" {
		return opts.UnknownDeviceLabel, nil
	}
	return "", fmt.Errorf("phoneData: %w", ingest.MissingField(keys[0]))
}

// FlattenRun derives one row from run, starting from the record's base row.
func FlattenRun(base model.FlattenedRunRow, run gjson.Result, runNum int, opts Options) (model.FlattenedRunRow, error) {
	row := base
	row.RunNum = runNum

	sensors, err := sensorPair(run, opts.SensorSentinel)
	if err != nil {
		return row, err
	}

	samples, err := ramSamples(run)
	if err != nil {
		return row, err
	}
	if row.RAM, err = RAM(samples, opts.RAMFilterRatio); err != nil {
		return row, err
	}

	if row.InputTokens, err = integer(run, "inputTokens"); err != nil {
		return row, err
	}
	if row.OutputTokens, err = integer(run, "outputTokens"); err != nil {
		return row, err
	}
	if row.TPS, err = number(run, "tps"); err != nil {
		return row, err
	}
	if row.TTFT, err = number(run, "ttft"); err != nil {
		return row, err
	}
	if row.PrefillSpeed, err = PrefillSpeed(row.InputTokens, row.TTFT); err != nil {
		return row, err
	}
	if row.InferenceTime, err = number(run, "inferenceTime"); err != nil {
		return row, err
	}
	if row.BatteryBefore, row.BatteryAfter, err = pair(run, "battery"); err != nil {
		return row, err
	}
	if row.BatteryTempBefore, row.BatteryTempAfter, err = pair(run, "batteryTempreture"); err != nil {
		return row, err
	}

	infos := run.Get("batteryInfos")
	if infos.Exists() {
		if row.BatteryInfo, err = batteryFields(infos, opts.BatterySkipKeys); err != nil {
			return row, err
		}
	}
	if !opts.LegacySensorGuard || infos.Exists() {
		row.SensorTemps = sensorFields(sensors)
	}

	return row, nil
}

// PrefillSpeed is the prompt ingestion throughput in tokens per second.
func PrefillSpeed(inputTokens int64, ttftMs float64) (float64, error) {
	if ttftMs == 0 {
		return 0, ingest.ErrZeroTTFT
	}
	return float64(inputTokens) / (ttftMs / 1000.0), nil
}

func ramSamples(run gjson.Result) ([]float64, error) {
	ram, err := present(run, "ram")
	if err != nil {
		return nil, err
	}
	if !ram.IsArray() {
		return nil, fmt.Errorf("ram: expected array, got %s", ram.Type)
	}
	var samples []float64
	for i, v := range ram.Array() {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("ram[%d]: expected number, got %s", i, v.Type)
		}
		samples = append(samples, v.Float())
	}
	return samples, nil
}

// sensorPair parses the before/after sensor dumps of a run.
func sensorPair(run gjson.Result, sentinel string) ([2][]Reading, error) {
	var out [2][]Reading

	raw, err := present(run, "sensorTempreratures")
	if err != nil {
		return out, err
	}
	blocks := raw.Array()
	if !raw.IsArray() || len(blocks) != 2 {
		return out, fmt.Errorf("sensorTempreratures: expected [before, after], got %s", raw.Raw)
	}
	for i, b := range blocks {
		if b.Type != gjson.String {
			return out, fmt.Errorf("sensorTempreratures[%d]: expected string, got %s", i, b.Type)
		}
		if out[i], err = ParseSensorBlock(b.Str, sentinel); err != nil {
			return out, fmt.Errorf("sensorTempreratures[%d]: %w", i, err)
		}
	}
	return out, nil
}

func sensorFields(sensors [2][]Reading) []model.Field {
	before, after := sensors[0], sensors[1]
	n := min(len(before), len(after))

	fields := make([]model.Field, 0, 2*n)
	for i := 0; i < n; i++ {
		fields = append(fields,
			model.Field{Key: "sensTemp_" + before[i].Name + "_bef", Value: before[i].Value},
			model.Field{Key: "sensTemp_" + after[i].Name + "_aft", Value: after[i].Value},
		)
	}
	return fields
}

// batteryFields zips the before/after diagnostics by position. Both
// snapshots come from the same app call, so key order matches.
func batteryFields(infos gjson.Result, skip []string) ([]model.Field, error) {
	snapshots := infos.Array()
	if !infos.IsArray() || len(snapshots) != 2 || !snapshots[0].IsObject() || !snapshots[1].IsObject() {
		return nil, fmt.Errorf("batteryInfos: expected [before, after] objects, got %s", infos.Raw)
	}
	before, after := entries(snapshots[0]), entries(snapshots[1])
	n := min(len(before), len(after))

	skipped := make(map[string]bool, len(skip))
	for _, k := range skip {
		skipped[k] = true
	}

	var fields []model.Field
	for i := 0; i < n; i++ {
		if !skipped[before[i].Key] {
			fields = append(fields, model.Field{Key: "batInfo_" + before[i].Key + "_bef", Value: before[i].Value})
		}
		if !skipped[after[i].Key] {
			fields = append(fields, model.Field{Key: "batInfo_" + after[i].Key + "_aft", Value: after[i].Value})
		}
	}
	return fields, nil
}

// entries lists the members of a JSON object in document order.
func entries(obj gjson.Result) []model.Field {
	var out []model.Field
	obj.ForEach(func(k, v gjson.Result) bool {
		out = append(out, model.Field{Key: k.String(), Value: v.Value()})
		return true
	})
	return out
}
