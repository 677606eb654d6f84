package growth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"dla/model"
)

const (
	// WeightFloor 浓度下限，求解过冲产生的负值或零值先抬到该值再取幂
	WeightFloor = 1e-12

	// DegenerateWeight 总权重不超过该值即视为退化
	DegenerateWeight = 1e-300
)

// Selection is the cell chosen for the next growth step.
type Selection struct {
	Cell       model.Cell
	ReachedTop bool
}

// Weights writes max(field, WeightFloor)^eta for every frontier cell and 0 for
// every other cell into dst, reusing its storage when large enough.
func Weights(dst []float64, field *model.Field, frontier *model.Grid, eta float64) []float64 {
	n := len(field.Data)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for k, v := range field.Data {
		if !frontier.Cells[k] {
			dst[k] = 0
			continue
		}
		if !(v > WeightFloor) {
			v = WeightFloor
		}
		dst[k] = math.Pow(v, eta)
	}
	return dst
}

// Select draws one frontier cell with probability proportional to its weight.
func Select(field *model.Field, frontier *model.Grid, eta float64, rng *rand.Rand) (Selection, error) {
	return pick(Weights(nil, field, frontier, eta), field.N, rng)
}

// pick 逆 CDF 采样：一次均匀抽样，按行优先顺序累加权重，累加和首次超过抽样值的格子被选中
func pick(weights []float64, n int, rng *rand.Rand) (Selection, error) {
	total := floats.Sum(weights)
	if !(total > DegenerateWeight) || math.IsInf(total, 0) {
		return Selection{}, fmt.Errorf("%w: total weight %g", ErrDegenerateDistribution, total)
	}

	x := rng.Float64() * total
	acc := 0.0
	last := -1
	for k, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		last = k
		if acc > x {
			break
		}
	}
	// 舍入误差导致累加和未超过 x 时取最后一个有权重的格子
	cell := model.Cell{Row: last / n, Col: last % n}
	return Selection{Cell: cell, ReachedTop: cell.Row == 0}, nil
}
