package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Neighbors(t *testing.T) {
	g := NewGrid(5)

	cases := []struct {
		name     string
		row, col int
		expected []Cell
	}{
		{"interior", 2, 2, []Cell{{1, 2}, {3, 2}, {2, 1}, {2, 3}}},
		{"left edge wraps", 2, 0, []Cell{{1, 0}, {3, 0}, {2, 4}, {2, 1}}},
		{"right edge wraps", 2, 4, []Cell{{1, 4}, {3, 4}, {2, 3}, {2, 0}}},
		{"top row clamps", 0, 2, []Cell{{1, 2}, {0, 1}, {0, 3}}},
		{"bottom row clamps", 4, 2, []Cell{{3, 2}, {4, 1}, {4, 3}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ElementsMatch(t, c.expected, g.Neighbors(nil, c.row, c.col))
		})
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := NewGrid(3)
	g.Set(1, 1, true)
	c := g.Clone()
	require.True(t, c.Equal(g))

	c.Set(0, 0, true)
	assert.False(t, g.Has(0, 0))
	assert.False(t, c.Equal(g))
	assert.Equal(t, 1, g.Count())
	assert.Equal(t, 2, c.Count())
}

func TestField_Row(t *testing.T) {
	f := NewField(4)
	row := f.Row(2)
	row[3] = 0.5
	assert.Equal(t, 0.5, f.At(2, 3))

	c := f.Clone()
	c.Set(2, 3, 1)
	assert.Equal(t, 0.5, f.At(2, 3))
}
