package seed

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"dla/model"
)

// 初始聚集体的构造
// 1. 单点：默认位于倒数第二行的中间列
// 2. 底线：整个最底行
// 3. 自定义格子列表

var ErrInvalidSeed = errors.New("seed: invalid seed configuration")

// Point places a single stuck cell. Negative row counts from the bottom
// (-1 is row N-1), negative col selects the centre column.
func Point(n, row, col int) (*model.Grid, error) {
	if row < 0 {
		row = n + row
	}
	if col < 0 {
		col = n / 2
	}
	return Cells(n, []model.Cell{{Row: row, Col: col}})
}

// Default 原始实验使用的种子：倒数第二行中间
func Default(n int) (*model.Grid, error) {
	return Point(n, -2, -1)
}

// BottomLine marks the whole bottom row as stuck.
func BottomLine(n int) (*model.Grid, error) {
	cells := make([]model.Cell, 0, n)
	for j := 0; j < n; j++ {
		cells = append(cells, model.Cell{Row: n - 1, Col: j})
	}
	return Cells(n, cells)
}

func Cells(n int, cells []model.Cell) (*model.Grid, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: grid size %d must be at least 3", ErrInvalidSeed, n)
	}
	g := model.NewGrid(n)
	for _, c := range cells {
		if c.Row < 0 || c.Row >= n || c.Col < 0 || c.Col >= n {
			return nil, fmt.Errorf("%w: cell (%d,%d) outside %dx%d grid", ErrInvalidSeed, c.Row, c.Col, n, n)
		}
		g.Set(c.Row, c.Col, true)
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"grid_size": n,
		"cells":     g.Count(),
	}).Debug("seed built")
	return g, nil
}

// Validate checks that g has at least one stuck cell and none in row 0.
func Validate(g *model.Grid) error {
	if g == nil {
		return fmt.Errorf("%w: no grid", ErrInvalidSeed)
	}
	if g.N < 3 {
		return fmt.Errorf("%w: grid size %d must be at least 3", ErrInvalidSeed, g.N)
	}
	for j := 0; j < g.N; j++ {
		if g.Has(0, j) {
			return fmt.Errorf("%w: cell (0,%d) is in the source row", ErrInvalidSeed, j)
		}
	}
	if g.Count() == 0 {
		return fmt.Errorf("%w: no stuck cell", ErrInvalidSeed)
	}
	return nil
}
