package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dla/model"
)

func TestNewFrontier_SingleCell(t *testing.T) {
	agg := model.NewGrid(5)
	agg.Set(2, 2, true)

	f := NewFrontier(agg)
	expected := []model.Cell{{Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 3}, {Row: 3, Col: 2}}
	assert.Equal(t, expected, f.Cells())
	assert.Equal(t, 4, f.Size())
}

func TestNewFrontier_EdgesWrapColumnsClampRows(t *testing.T) {
	agg := model.NewGrid(5)
	agg.Set(4, 0, true)

	f := NewFrontier(agg)
	// 左侧绕回到第 4 列，下方没有邻居
	expected := []model.Cell{{Row: 3, Col: 0}, {Row: 4, Col: 1}, {Row: 4, Col: 4}}
	assert.Equal(t, expected, f.Cells())
	assert.False(t, f.Grid().Has(0, 0))
}

func TestFrontier_GrowMatchesRescan(t *testing.T) {
	agg := model.NewGrid(7)
	agg.Set(5, 3, true)
	f := NewFrontier(agg)

	path := []model.Cell{{Row: 4, Col: 3}, {Row: 4, Col: 4}, {Row: 3, Col: 4}, {Row: 3, Col: 5}, {Row: 3, Col: 6}, {Row: 3, Col: 0}, {Row: 6, Col: 3}, {Row: 2, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 0}}
	for _, c := range path {
		require.True(t, f.Grid().Has(c.Row, c.Col), "cell %v should be on the frontier before growing", c)
		agg.Set(c.Row, c.Col, true)
		f.Grow(agg, c)

		fresh := NewFrontier(agg)
		require.True(t, fresh.Grid().Equal(f.Grid()), "frontier drifted after growing %v", c)
		require.Equal(t, fresh.Size(), f.Size())
		assert.Equal(t, f.Grid().Count(), f.Size())
	}
}
