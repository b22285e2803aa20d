/*
PURPOSE:
  Evaluation-Result Reader. Turns accuracy-benchmark exports into one flat
  EvaluationResultRow per file, labelled and ordered by quantization.

REQUIREMENTS:
  User-specified:
  - Only files whose name contains a benchmark token (MMLU, IFEval) are read.
  - Keep keys ending in "acc" or "acc_stderr"; drop "N/A" values.
  - Label "<model> <quant>" from <model>-<benchmark>-<quant>.json.

  Implementation-discovered:
  - i-quants sort after their base family (the "I" moves to the end).

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Uses: internal/model

ERROR HANDLING:
  - Malformed JSON is logged and skipped.
  - A naming-convention violation is fatal (RecordError).

IMPLEMENTATION RULES:
  - Metric cells stay scalar; nested values are kept as raw JSON text.

USAGE:
  rows, err := r.ReadEval("./data/llama31_8b_mmlu")

SELF-HEALING INSTRUCTIONS:
  - If a new benchmark is exported, add its token to eval_benchmarks.

RELATED FILES:
  - internal/ingest/reader.go

MAINTENANCE:
  - None.
*/

package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"

	"github.com/daryltucker/forest-bench/internal/model"
)

// ReadEval reads every recognized evaluation export in dir and returns the
// rows sorted by quantization. A misnamed export aborts the read.
func (r *Reader) ReadEval(dir string) ([]model.EvaluationResultRow, error) {
	names, err := jsonFiles(dir)
	if err != nil {
		return nil, err
	}

	var rows []model.EvaluationResultRow
	for _, name := range names {
		if !r.isBenchmark(name) {
			r.Observer.FileSkipped(DatasetEvaluation, ReasonNotBenchmark)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			r.Logger.Error("Failed to read file", "file", name, "error", err)
			r.Observer.FileSkipped(DatasetEvaluation, ReasonRead)
			continue
		}

		row, err := r.ParseEval(name, data)
		if err != nil {
			if errors.Is(err, ErrParse) {
				r.Logger.Error("Error decoding JSON in file", "file", name, "error", err)
				r.Observer.FileSkipped(DatasetEvaluation, ReasonParse)
				continue
			}
			return nil, err
		}

		r.Observer.FileRead(DatasetEvaluation)
		rows = append(rows, row)
	}

	if err := SortByQuant(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Reader) isBenchmark(name string) bool {
	for _, b := range r.Benchmarks {
		if strings.Contains(name, b) {
			return true
		}
	}
	return false
}

// ParseEval parses one evaluation export. Malformed JSON yields ErrParse;
// a filename outside the naming convention yields ErrNamingConvention.
func (r *Reader) ParseEval(name string, data []byte) (model.EvaluationResultRow, error) {
	if !gjson.ValidBytes(data) {
		return model.EvaluationResultRow{}, ErrParse
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return model.EvaluationResultRow{}, fmt.Errorf("%w: top-level value is not an object", ErrParse)
	}

	var metrics []model.Field
	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if !strings.HasSuffix(k, "acc") && !strings.HasSuffix(k, "acc_stderr") {
			return true
		}
		if value.Type == gjson.String && value.Str == r.NotApplicable {
			return true
		}
		metrics = append(metrics, model.Field{Key: k, Value: scalar(value)})
		return true
	})
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Key < metrics[j].Key })

	label, err := EvalLabel(name)
	if err != nil {
		return model.EvaluationResultRow{}, &RecordError{File: name, Err: err}
	}

	return model.EvaluationResultRow{Model: label, Metrics: metrics}, nil
}

// EvalLabel derives "<model> <quant>" from <model>-<benchmark>-<quant>.json.
func EvalLabel(filename string) (string, error) {
	parts := strings.Split(strings.TrimSuffix(filename, ".json"), "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %d segments", ErrNamingConvention, len(parts))
	}
	name, quant := parts[0], parts[2]
	return norm.NFC.String(strings.ReplaceAll(name, "_", " ") + " " + quant), nil
}

// QuantSortKey extracts the quantization token (third word) of a label.
// Tokens containing "I" (i-quants) have every "I" moved to the end so they
// sort after their base family: IQ4_XS compares as Q4_XSI.
func QuantSortKey(label string) (string, error) {
	words := strings.Fields(label)
	if len(words) < 3 {
		return "", fmt.Errorf("label %q has no quantization token", label)
	}
	quant := words[2]
	if strings.Contains(quant, "I") {
		quant = strings.ReplaceAll(quant, "I", "") + "I"
	}
	return quant, nil
}

// SortByQuant orders rows by QuantSortKey, keeping file order for ties.
func SortByQuant(rows []model.EvaluationResultRow) error {
	keys := make(map[string]string, len(rows))
	for _, row := range rows {
		k, err := QuantSortKey(row.Model)
		if err != nil {
			return err
		}
		keys[row.Model] = k
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return keys[rows[i].Model] < keys[rows[j].Model]
	})
	return nil
}

// scalar keeps a metric cell flat: objects and arrays are stored as their
// raw JSON text.
func scalar(v gjson.Result) any {
	if v.IsObject() || v.IsArray() {
		return v.Raw
	}
	return v.Value()
}
