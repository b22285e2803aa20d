package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSensorBlock(t *testing.T) {
	got, err := ParseSensorBlock("cpu0: 45.2\ngpu: 273000\n\nbattery: 30.1\n", "273000")
	require.NoError(t, err)
	assert.Equal(t, []Reading{{"cpu0", 45.2}, {"battery", 30.1}}, got)
}

func TestParseSensorBlock_DuplicateKeepsFirstPositionLastValue(t *testing.T) {
	got, err := ParseSensorBlock("cpu: 40\nskin: 33\ncpu: 42", "273000")
	require.NoError(t, err)
	assert.Equal(t, []Reading{{"cpu", 42}, {"skin", 33}}, got)
}

func TestParseSensorBlock_Malformed(t *testing.T) {
	_, err := ParseSensorBlock("cpu=40", "273000")
	assert.Error(t, err)

	_, err = ParseSensorBlock("cpu: hot", "273000")
	assert.Error(t, err)
}

func TestParseSensorBlock_Empty(t *testing.T) {
	got, err := ParseSensorBlock("", "273000")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseSensorBlock_ExtraSeparatorsIgnored(t *testing.T) {
	got, err := ParseSensorBlock("a: 1: 2\nb: 3", "273000")
	require.NoError(t, err)
	assert.Equal(t, []Reading{{"a", 1}, {"b", 3}}, got)
}
