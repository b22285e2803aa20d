package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRAM(t *testing.T) {
	got, err := RAM([]float64{1000, 2000, 3000}, 0.7)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, got.Max)
	assert.Equal(t, 1000.0, got.Min)
	assert.Equal(t, 3000.0, got.Median, "only 3000 is >= 0.7*max")
	assert.Equal(t, 3000.0, got.Avg)
	assert.Equal(t, 1000.0, got.Std, "std covers every sample")
}

func TestRAM_OrderingHolds(t *testing.T) {
	samples := []float64{512, 3900, 4100, 4050, 3980, 1200, 4095}
	got, err := RAM(samples, 0.7)
	require.NoError(t, err)

	assert.LessOrEqual(t, got.Min, got.Median)
	assert.LessOrEqual(t, got.Median, got.Max)
	assert.LessOrEqual(t, got.Min, got.Avg)
	assert.LessOrEqual(t, got.Avg, got.Max)
	assert.GreaterOrEqual(t, got.Std, 0.0)
	assert.Equal(t, []float64{512, 3900, 4100, 4050, 3980, 1200, 4095}, samples, "input must not be reordered")
}

func TestRAM_TooFewSamples(t *testing.T) {
	for _, samples := range [][]float64{nil, {42}} {
		_, err := RAM(samples, 0.7)
		assert.ErrorIs(t, err, ErrTooFewSamples)
	}
}

func TestFilterRAM_FallsBackToAll(t *testing.T) {
	// With negative readings the threshold can exceed every sample.
	samples := []float64{-10, -20}
	assert.Equal(t, samples, FilterRAM(samples, 0.7*-10))

	assert.Equal(t, []float64{8, 10}, FilterRAM([]float64{1, 8, 10}, 7))
}
