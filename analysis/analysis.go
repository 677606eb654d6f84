// Package analysis computes horizontal cross-section statistics of final
// aggregates.
package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dla/model"
)

var ErrNoGrids = errors.New("analysis: no grids or grids of different sizes")

// Profile 每一行的截面统计
type Profile struct {
	N int `json:"n"`
	// 平均每行被占据的格子数
	CellsPerRow []float64 `json:"cells_per_row"`
	// 每行格子到中心列的平均绝对距离，除以 N；没有任何格子的行为 NaN
	Deviation []float64 `json:"deviation"`
	// 平均高度
	MeanHeight float64 `json:"mean_height"`
}

// CellsPerRow counts the stuck cells of every row.
func CellsPerRow(g *model.Grid) []float64 {
	res := make([]float64, g.N)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			if g.Has(i, j) {
				res[i]++
			}
		}
	}
	return res
}

// Height is the number of rows between the topmost stuck cell and the bottom
// row, both included. An empty grid has height 0.
func Height(g *model.Grid) int {
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			if g.Has(i, j) {
				return g.N - i
			}
		}
	}
	return 0
}

// Occupancy averages the grids cell by cell: the result holds, for every cell,
// the fraction of grids in which it is stuck.
func Occupancy(grids []*model.Grid) (*model.Field, error) {
	n, err := sameSize(grids)
	if err != nil {
		return nil, err
	}
	f := model.NewField(n)
	for _, g := range grids {
		for k, v := range g.Cells {
			if v {
				f.Data[k]++
			}
		}
	}
	floats.Scale(1/float64(len(grids)), f.Data)
	return f, nil
}

// MeanCellsPerRow averages CellsPerRow over the grids.
func MeanCellsPerRow(grids []*model.Grid) ([]float64, error) {
	n, err := sameSize(grids)
	if err != nil {
		return nil, err
	}
	res := make([]float64, n)
	for _, g := range grids {
		floats.Add(res, CellsPerRow(g))
	}
	floats.Scale(1/float64(len(grids)), res)
	return res, nil
}

// MeanAbsDeviation gives, per row, the mean |col - N/2| of the stuck cells,
// averaged over the grids that have at least one cell in that row and
// normalized by N.
func MeanAbsDeviation(grids []*model.Grid) ([]float64, error) {
	n, err := sameSize(grids)
	if err != nil {
		return nil, err
	}
	centre := n / 2
	res := make([]float64, n)
	perRun := make([]float64, 0, len(grids))
	for i := 0; i < n; i++ {
		perRun = perRun[:0]
		for _, g := range grids {
			var sum, count float64
			for j := 0; j < n; j++ {
				if g.Has(i, j) {
					sum += math.Abs(float64(j - centre))
					count++
				}
			}
			if count > 0 {
				perRun = append(perRun, sum/count)
			}
		}
		if len(perRun) == 0 {
			res[i] = math.NaN()
			continue
		}
		res[i] = stat.Mean(perRun, nil) / float64(n)
	}
	return res, nil
}

// Analyze builds the full cross-section profile of a set of final aggregates.
func Analyze(grids []*model.Grid) (Profile, error) {
	cells, err := MeanCellsPerRow(grids)
	if err != nil {
		return Profile{}, err
	}
	dev, err := MeanAbsDeviation(grids)
	if err != nil {
		return Profile{}, err
	}
	heights := make([]float64, len(grids))
	for k, g := range grids {
		heights[k] = float64(Height(g))
	}
	return Profile{
		N:           grids[0].N,
		CellsPerRow: cells,
		Deviation:   dev,
		MeanHeight:  stat.Mean(heights, nil),
	}, nil
}

func sameSize(grids []*model.Grid) (int, error) {
	if len(grids) == 0 || grids[0] == nil {
		return 0, ErrNoGrids
	}
	n := grids[0].N
	for _, g := range grids[1:] {
		if g == nil || g.N != n {
			return 0, ErrNoGrids
		}
	}
	return n, nil
}
