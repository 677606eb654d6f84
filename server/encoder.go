package server

import (
	"errors"
	"math"

	"dla/model"
)

// DefaultLevels 浓度量化的级数，相邻量化值之差不会超出 int8
const DefaultLevels = 100

var ErrBadEncoding = errors.New("server: malformed field encoding")

// Encode quantizes a field with values in [0,1] to integer levels and stores
// it as a start value plus int8 differences between consecutive cells in
// row-major order. levels must lie in [1,127].
func Encode(f *model.Field, levels int) model.Encoding {
	if levels < 1 || levels > math.MaxInt8 {
		levels = DefaultLevels
	}
	enc := model.Encoding{
		N:      f.N,
		Levels: levels,
		Data:   make([]int8, len(f.Data)),
	}
	pre := 0
	for k, v := range f.Data {
		q := quantize(v, levels)
		if k == 0 {
			enc.Start = q
			pre = q
		}
		enc.Data[k] = int8(q - pre)
		pre = q
	}
	return enc
}

func quantize(v float64, levels int) int {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return levels
	}
	return int(math.Round(v * float64(levels)))
}

// Decode reverses the delta encoding and returns the quantized levels.
func Decode(enc model.Encoding) ([]int, error) {
	if enc.N*enc.N != len(enc.Data) {
		return nil, ErrBadEncoding
	}
	res := make([]int, len(enc.Data))
	cur := enc.Start
	for k, d := range enc.Data {
		cur += int(d)
		res[k] = cur
	}
	return res, nil
}

// Dequantize returns the approximate field carried by enc.
func Dequantize(enc model.Encoding) (*model.Field, error) {
	levels, err := Decode(enc)
	if err != nil {
		return nil, err
	}
	if enc.Levels <= 0 {
		return nil, ErrBadEncoding
	}
	f := model.NewField(enc.N)
	for k, q := range levels {
		f.Data[k] = float64(q) / float64(enc.Levels)
	}
	return f, nil
}
