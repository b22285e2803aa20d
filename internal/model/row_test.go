package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_SetKeepsInsertionOrder(t *testing.T) {
	var r Row
	r.Set("model", "Llama 3.2 3B Q4_0")
	r.Set("tps", 12.5)
	r.Set("ttft", 400.0)
	r.Set("tps", 13.0)

	assert.Equal(t, []string{"model", "tps", "ttft"}, r.Keys())
	v, ok := r.Get("tps")
	require.True(t, ok)
	assert.Equal(t, 13.0, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRow_MarshalJSONOrdered(t *testing.T) {
	var r Row
	r.Set("z", 1)
	r.Set("a", "x")
	r.Set("m", true)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":true}`, string(data))
}

func TestFlattenedRunRow_RowColumnOrder(t *testing.T) {
	f := FlattenedRunRow{
		Application: "MLC",
		RunID:       "abc",
		RunNum:      1,
		BatteryInfo: []Field{{Key: "batInfo_level_bef", Value: 90.0}, {Key: "batInfo_level_aft", Value: 88.0}},
		SensorTemps: []Field{{Key: "sensTemp_cpu0_bef", Value: 40.0}, {Key: "sensTemp_cpu0_aft", Value: 47.5}},
	}

	keys := f.Row().Keys()
	require.Len(t, keys, 30)
	assert.Equal(t, "application", keys[0])
	assert.Equal(t, "runNum", keys[10])
	assert.Equal(t, "ramMax", keys[11])
	assert.Equal(t, "prefillSpeed", keys[20])
	assert.Equal(t, "battery_temp_aft", keys[25])
	assert.Equal(t, []string{"batInfo_level_bef", "batInfo_level_aft", "sensTemp_cpu0_bef", "sensTemp_cpu0_aft"}, keys[26:])
}

func TestEvaluationResultRow_ModelFirst(t *testing.T) {
	e := EvaluationResultRow{
		Model:   "Llama31 8B Q4_K_M",
		Metrics: []Field{{Key: "mmlu_acc", Value: 0.61}, {Key: "mmlu_acc_stderr", Value: 0.004}},
	}
	assert.Equal(t, []string{"model", "mmlu_acc", "mmlu_acc_stderr"}, e.Row().Keys())
}
