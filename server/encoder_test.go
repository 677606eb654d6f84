package server

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dla/calculator"
	"dla/model"
)

func TestEncode_RoundTrip(t *testing.T) {
	f := model.NewField(20)
	_, err := calculator.Solve(f, nil, calculator.SolverParams{Omega: 1.5, Tolerance: 1e-10, MaxIterations: 100000, AdaptiveOmega: true})
	require.NoError(t, err)

	enc := Encode(f, DefaultLevels)
	assert.Equal(t, 20, enc.N)
	assert.Equal(t, DefaultLevels, enc.Levels)
	assert.Equal(t, DefaultLevels, enc.Start)
	require.Len(t, enc.Data, 400)
	assert.Equal(t, int8(0), enc.Data[0])

	back, err := Dequantize(enc)
	require.NoError(t, err)
	for k := range f.Data {
		assert.InDelta(t, f.Data[k], back.Data[k], 0.5/DefaultLevels+1e-12, "cell %d", k)
	}
}

func TestEncode_ExtremeSteps(t *testing.T) {
	// 0 与 1 交替时差值为 ±Levels，最大级数下仍在 int8 范围内
	f := model.NewField(4)
	for k := range f.Data {
		if k%2 == 0 {
			f.Data[k] = 1
		}
	}
	f.Data[1] = -0.5
	f.Data[3] = math.NaN()
	f.Data[5] = 1.7

	enc := Encode(f, math.MaxInt8)
	levels, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt8, levels[0])
	assert.Equal(t, 0, levels[1])
	assert.Equal(t, 0, levels[3])
	assert.Equal(t, math.MaxInt8, levels[5])
}

func TestEncode_InvalidLevels(t *testing.T) {
	enc := Encode(model.NewField(3), 1000)
	assert.Equal(t, DefaultLevels, enc.Levels)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(model.Encoding{N: 3, Data: make([]int8, 8)})
	assert.ErrorIs(t, err, ErrBadEncoding)

	_, err = Dequantize(model.Encoding{N: 1, Data: []int8{0}})
	assert.ErrorIs(t, err, ErrBadEncoding)
}
