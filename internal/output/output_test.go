package output

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/daryltucker/forest-bench/internal/model"
)

func row(fields ...model.Field) model.Row {
	var r model.Row
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

func sampleRows() []model.Row {
	return []model.Row{
		row(model.Field{Key: "model", Value: "Llama 3.2 3B Q4_0"}, model.Field{Key: "tps", Value: 12.5}),
		row(model.Field{Key: "model", Value: "Llama 3.1 8B q4f16_1"}, model.Field{Key: "tps", Value: 7.0},
			model.Field{Key: "batInfo_level_bef", Value: 91.0}),
	}
}

func TestColumns_UnionInFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"model", "tps", "batInfo_level_bef"}, Columns(sampleRows()))
	assert.Empty(t, Columns(nil))
}

func TestFormatValue(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{256.0, "256"},
		{45.2, "45.2"},
		{a + b, "0.30000000000000004"},
		{int64(128), "128"},
		{3, "3"},
		{true, "true"},
		{[]int{1}, "[1]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestWriteCSV_FillsMissingCellsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.csv")
	require.NoError(t, WriteCSV(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"model", "tps", "batInfo_level_bef"},
		{"Llama 3.2 3B Q4_0", "12.5", ""},
		{"Llama 3.1 8B q4f16_1", "7", "91"},
	}, records)
}

func TestWriteJSONL_OneOrderedObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.jsonl")
	require.NoError(t, WriteJSONL(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Equal(t, []string{
		`{"model":"Llama 3.2 3B Q4_0","tps":12.5}`,
		`{"model":"Llama 3.1 8B q4f16_1","tps":7,"batInfo_level_bef":91}`,
	}, lines)
}

func TestWriteWorkbook_OneSheetPerDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	sheets := []Sheet{
		{Name: "llama_perf", Rows: sampleRows()},
		{Name: "llama31_mmlu", Rows: []model.Row{row(model.Field{Key: "model", Value: "Llama31 8B Q8_0"}, model.Field{Key: "acc", Value: 0.66})}},
	}
	require.NoError(t, WriteWorkbook(path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"llama_perf", "llama31_mmlu"}, f.GetSheetList())

	rows, err := f.GetRows("llama_perf")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"model", "tps", "batInfo_level_bef"}, rows[0])
	assert.Equal(t, "Llama 3.1 8B q4f16_1", rows[2][0])

	rows, err = f.GetRows("llama31_mmlu")
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "acc"}, rows[0])
	assert.Equal(t, "0.66", rows[1][1])
}

func TestConfigure_JSONFormat(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	Configure(&buf, "warn", "json")
	Logger.Info("hidden")
	Logger.Warn("shown", "file", "a.json")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"file":"a.json"`)
}
