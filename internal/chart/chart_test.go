package chart

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/forest-bench/internal/engine"
	"github.com/daryltucker/forest-bench/internal/model"
)

func sampleRows() []model.FlattenedRunRow {
	return []model.FlattenedRunRow{
		{Application: engine.MLC, Model: "Llama 3.1 8B q4f16_1", TPS: 10, PrefillSpeed: 200},
		{Application: engine.MLC, Model: "Llama 3.1 8B q4f16_1", TPS: 14, PrefillSpeed: 220},
		{Application: engine.ExecuTorch, Model: "Llama 3.2 3B SpinQuant", TPS: 22, PrefillSpeed: 410},
		{Application: engine.LlamaCpp, Model: "Llama-3.2-3B-Q4_K_M.gguf", TPS: 18, PrefillSpeed: 95},
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteAll(dir, sampleRows())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}
}

func TestWriteAll_NoRows(t *testing.T) {
	_, err := WriteAll(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	order, groups := groupBy(sampleRows(), func(r model.FlattenedRunRow) string { return r.Application })
	assert.Equal(t, []string{engine.MLC, engine.ExecuTorch, engine.LlamaCpp}, order)
	assert.Len(t, groups[engine.MLC], 2)
}
