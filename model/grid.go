package model

// 网格约定
// 1. 行 0 为源（浓度恒为 1），行 N-1 为汇（浓度恒为 0）
// 2. 列方向周期边界，行方向不回绕
// 3. 所有网格按行优先存储

// Cell addresses one grid cell by row and column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is an N×N boolean grid stored row-major. It backs both the aggregate
// and the frontier.
type Grid struct {
	N     int
	Cells []bool
}

// 工厂方法
func NewGrid(n int) *Grid {
	if n <= 0 {
		n = 1
	}
	return &Grid{N: n, Cells: make([]bool, n*n)}
}

func (g *Grid) Index(row, col int) int { return row*g.N + col }

func (g *Grid) Has(row, col int) bool { return g.Cells[row*g.N+col] }

func (g *Grid) Set(row, col int, v bool) { g.Cells[row*g.N+col] = v }

// Count returns the number of true cells.
func (g *Grid) Count() int {
	n := 0
	for _, v := range g.Cells {
		if v {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	c := &Grid{N: g.N, Cells: make([]bool, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.N != o.N {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// Neighbors appends the valid 4-neighbours of (row, col) to dst: columns wrap
// modulo N, rows are clamped so row 0 has no upper neighbour and row N-1 has
// no lower one.
func (g *Grid) Neighbors(dst []Cell, row, col int) []Cell {
	n := g.N
	if row > 0 {
		dst = append(dst, Cell{Row: row - 1, Col: col})
	}
	if row < n-1 {
		dst = append(dst, Cell{Row: row + 1, Col: col})
	}
	if n > 1 {
		dst = append(dst, Cell{Row: row, Col: (col - 1 + n) % n})
		if n > 2 {
			dst = append(dst, Cell{Row: row, Col: (col + 1) % n})
		}
	}
	return dst
}

// Field is an N×N concentration grid stored row-major.
type Field struct {
	N    int
	Data []float64
}

func NewField(n int) *Field {
	if n <= 0 {
		n = 1
	}
	return &Field{N: n, Data: make([]float64, n*n)}
}

func (f *Field) At(row, col int) float64 { return f.Data[row*f.N+col] }

func (f *Field) Set(row, col int, v float64) { f.Data[row*f.N+col] = v }

// Row returns the backing slice of one row, writes go through.
func (f *Field) Row(row int) []float64 { return f.Data[row*f.N : (row+1)*f.N] }

func (f *Field) Clone() *Field {
	c := &Field{N: f.N, Data: make([]float64, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}
