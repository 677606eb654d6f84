package growth

import "dla/model"

// Frontier tracks the empty cells that touch the aggregate.
//
// After every Grow the tracked grid equals NewFrontier(aggregate).Grid().
type Frontier struct {
	grid *model.Grid
	size int
	buf  []model.Cell // 邻居缓存，避免每步分配
}

// NewFrontier scans the aggregate once, O(N²).
func NewFrontier(aggregate *model.Grid) *Frontier {
	f := &Frontier{
		grid: model.NewGrid(aggregate.N),
		buf:  make([]model.Cell, 0, 4),
	}
	n := aggregate.N
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if aggregate.Has(i, j) {
				continue
			}
			f.buf = aggregate.Neighbors(f.buf[:0], i, j)
			for _, nb := range f.buf {
				if aggregate.Has(nb.Row, nb.Col) {
					f.grid.Set(i, j, true)
					f.size++
					break
				}
			}
		}
	}
	return f
}

// Grow must be called exactly once right after cell was added to aggregate.
// O(1): the cell leaves the frontier, its empty neighbours join it.
func (f *Frontier) Grow(aggregate *model.Grid, cell model.Cell) {
	if f.grid.Has(cell.Row, cell.Col) {
		f.grid.Set(cell.Row, cell.Col, false)
		f.size--
	}
	f.buf = aggregate.Neighbors(f.buf[:0], cell.Row, cell.Col)
	for _, nb := range f.buf {
		if aggregate.Has(nb.Row, nb.Col) || f.grid.Has(nb.Row, nb.Col) {
			continue
		}
		f.grid.Set(nb.Row, nb.Col, true)
		f.size++
	}
}

// Grid exposes the frontier mask. Callers must not modify it.
func (f *Frontier) Grid() *model.Grid { return f.grid }

func (f *Frontier) Size() int { return f.size }

// Cells lists frontier cells in row-major order.
func (f *Frontier) Cells() []model.Cell {
	res := make([]model.Cell, 0, f.size)
	n := f.grid.N
	for k, v := range f.grid.Cells {
		if v {
			res = append(res, model.Cell{Row: k / n, Col: k % n})
		}
	}
	return res
}
