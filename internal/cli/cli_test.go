package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/forest-bench/internal/assets"
	"github.com/daryltucker/forest-bench/internal/config"
)

func TestParseEvalSets(t *testing.T) {
	sets, err := parseEvalSets([]string{"llama31_mmlu=./data/mmlu", "llama32_ifeval=/abs/ifeval"})
	require.NoError(t, err)
	assert.Equal(t, []config.EvalSet{
		{Name: "llama31_mmlu", Dir: "./data/mmlu"},
		{Name: "llama32_ifeval", Dir: "/abs/ifeval"},
	}, sets)

	for _, bad := range []string{"nodir", "=./dir", "name="} {
		_, err := parseEvalSets([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestInstallFunctions(t *testing.T) {
	fsys := fstest.MapFS{
		"functions/a.jq":        {Data: []byte("def a: 1;")},
		"functions/b.jq":        {Data: []byte("def b: 2;")},
		"functions/nested/c.jq": {Data: []byte("def c: 3;")},
	}
	dir := filepath.Join(t.TempDir(), "functions")

	count, err := installFunctions(fsys, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "directories are not installed")

	data, err := os.ReadFile(filepath.Join(dir, "b.jq"))
	require.NoError(t, err)
	assert.Equal(t, "def b: 2;", string(data))
}

func TestInstallFunctions_Embedded(t *testing.T) {
	count, err := installFunctions(assets.Functions, t.TempDir())
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestModelsCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "benchmark-1.json"),
		[]byte(`{"version":"MLC-0.1","model":"Llama-3.2-3B-Instruct-q4f16_1-MLC"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "benchmark-2.json"),
		[]byte(`{"version":"MLC-0.1","model":"Llama-3.2-3B-Instruct-q4f16_1-MLC"}`), 0644))
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"models", "--perf-dir", dir})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		perfDirOverride = ""
	})

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "APPLICATION")
	assert.Contains(t, out.String(), "Llama 3.2 3B q4f16_1")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Llama-3.2-3B-Instruct-q4f16_1-MLC")), "duplicates collapse")
}
