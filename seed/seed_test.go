package seed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dla/model"
)

func TestDefault(t *testing.T) {
	g, err := Default(100)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Count())
	assert.True(t, g.Has(98, 50))
}

func TestPoint(t *testing.T) {
	g, err := Point(5, 3, 2)
	require.NoError(t, err)
	assert.True(t, g.Has(3, 2))

	g, err = Point(5, -1, 0)
	require.NoError(t, err)
	assert.True(t, g.Has(4, 0))
}

func TestBottomLine(t *testing.T) {
	g, err := BottomLine(6)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Count())
	for j := 0; j < 6; j++ {
		assert.True(t, g.Has(5, j))
	}
}

func TestInvalidSeeds(t *testing.T) {
	cases := map[string]func() (*model.Grid, error){
		"source row":   func() (*model.Grid, error) { return Point(5, 0, 2) },
		"out of range": func() (*model.Grid, error) { return Point(5, 7, 2) },
		"empty":        func() (*model.Grid, error) { return Cells(5, nil) },
		"tiny grid":    func() (*model.Grid, error) { return Default(2) },
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build()
			assert.True(t, errors.Is(err, ErrInvalidSeed))
		})
	}
	assert.True(t, errors.Is(Validate(nil), ErrInvalidSeed))
}
