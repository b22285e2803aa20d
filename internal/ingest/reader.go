/*
PURPOSE:
  Raw Record Reader. Scans a directory of performance JSON files exported by
  the phone apps and turns each into a model.RawBenchmarkRecord.

REQUIREMENTS:
  User-specified:
  - Every *.json in the directory (non-recursive).
  - runId = filename without ".json" and without a leading "benchmark-".
  - "data" and "phoneData" may arrive as JSON-encoded strings; decode them.

  Implementation-discovered:
  - Battery diagnostics are zipped positionally later, so the decoded
    structure is spliced back into the raw bytes (sjson) instead of going
    through map[string]any, which would lose key order.
  - Exports from macOS produce NFD filenames; runId is NFC-normalized so the
    same run always gets the same identifier.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Produces: internal/model.RawBenchmarkRecord
  - Dependencies: tidwall/gjson, tidwall/sjson, golang.org/x/text

ERROR HANDLING:
  - Unreadable or malformed file: logged with filename, skipped, batch continues.
  - Malformed nested field: logged, left as the original string, file kept.
  - Only a failure to list the directory is returned.

IMPLEMENTATION RULES:
  - Files are read one at a time with os.ReadFile (no long-lived handles).
  - Output order is directory-listing order; callers sort.

USAGE:
  r := ingest.NewReader(output.Logger, nil)
  records, err := r.ReadPerf("./data/llama31_8b_perf")

SELF-HEALING INSTRUCTIONS:
  - If a new app version wraps another field as a string, add it to nestedFields.

RELATED FILES:
  - internal/ingest/eval.go
  - internal/derive/flatten.go

MAINTENANCE:
  - None.
*/

package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/text/unicode/norm"

	"github.com/daryltucker/forest-bench/internal/model"
)

// nestedFields may hold a JSON document encoded as a string.
var nestedFields = []string{"data", "phoneData"}

// Reader reads performance and evaluation directories.
type Reader struct {
	Logger   *slog.Logger
	Observer Observer

	// Benchmarks are the filename tokens marking an evaluation export.
	Benchmarks []string
	// NotApplicable is the sentinel value dropped from evaluation metrics.
	NotApplicable string
}

// NewReader creates a Reader with the default evaluation settings.
// A nil observer discards events.
func NewReader(logger *slog.Logger, obs Observer) *Reader {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Reader{
		Logger:        logger,
		Observer:      obs,
		Benchmarks:    []string{"MMLU", "IFEval"},
		NotApplicable: "N/A",
	}
}

// RunID derives the run identifier from a performance filename.
func RunID(filename string) string {
	id := strings.TrimSuffix(filename, ".json")
	id = strings.TrimPrefix(id, "benchmark-")
	return norm.NFC.String(id)
}

// jsonFiles lists the *.json entries of dir in listing order.
func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadPerf reads every performance record in dir.
func (r *Reader) ReadPerf(dir string) ([]model.RawBenchmarkRecord, error) {
	names, err := jsonFiles(dir)
	if err != nil {
		return nil, err
	}

	var records []model.RawBenchmarkRecord
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			r.Logger.Error("Failed to read file", "file", name, "error", err)
			r.Observer.FileSkipped(DatasetPerformance, ReasonRead)
			continue
		}

		rec, err := r.ParseRecord(name, data)
		if err != nil {
			r.Logger.Error("Error decoding JSON in file", "file", name, "error", err)
			r.Observer.FileSkipped(DatasetPerformance, ReasonParse)
			continue
		}

		r.Observer.FileRead(DatasetPerformance)
		records = append(records, rec)
	}
	return records, nil
}

// ParseRecord parses one performance file. Only a top-level failure is returned.
func (r *Reader) ParseRecord(name string, data []byte) (model.RawBenchmarkRecord, error) {
	if !gjson.ValidBytes(data) {
		return model.RawBenchmarkRecord{}, ErrParse
	}
	if !gjson.ParseBytes(data).IsObject() {
		return model.RawBenchmarkRecord{}, fmt.Errorf("%w: top-level value is not an object", ErrParse)
	}

	raw := data
	for _, key := range nestedFields {
		field := gjson.GetBytes(raw, key)
		if field.Type != gjson.String {
			continue
		}
		if !gjson.Valid(field.Str) {
			r.Logger.Warn("Could not parse nested field", "file", name, "field", key, "error", ErrParse)
			r.Observer.NestedDecodeFailed(key)
			continue
		}
		decoded, err := sjson.SetRawBytes(raw, key, []byte(field.Str))
		if err != nil {
			r.Logger.Warn("Could not parse nested field", "file", name, "field", key, "error", err)
			r.Observer.NestedDecodeFailed(key)
			continue
		}
		raw = decoded
	}

	return model.RawBenchmarkRecord{
		RunID:     RunID(name),
		File:      name,
		Version:   gjson.GetBytes(raw, "version").String(),
		Model:     gjson.GetBytes(raw, "model").String(),
		Family:    gjson.GetBytes(raw, "family").String(),
		UserID:    gjson.GetBytes(raw, "userId").String(),
		PhoneData: gjson.GetBytes(raw, "phoneData"),
		Data:      gjson.GetBytes(raw, "data"),
		Raw:       raw,
	}, nil
}
