package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellMove(t *testing.T) {
	cases := []struct {
		dir  Direction
		want Cell
	}{
		{Up, Cell{Row: 1, Col: 2}},
		{Down, Cell{Row: 3, Col: 2}},
		{Left, Cell{Row: 2, Col: 1}},
		{Right, Cell{Row: 2, Col: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			got, ok := Cell{Row: 2, Col: 2}.Move(tc.dir)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown direction stays put", func(t *testing.T) {
		got, ok := Cell{Row: 2, Col: 2}.Move(Direction(42))
		assert.False(t, ok)
		assert.Equal(t, Cell{Row: 2, Col: 2}, got)
	})
}

func TestGridContains(t *testing.T) {
	g := Grid{Rows: 3, Columns: 4}
	assert.True(t, g.Contains(Cell{Row: 0, Col: 0}))
	assert.True(t, g.Contains(Cell{Row: 2, Col: 3}))
	assert.False(t, g.Contains(Cell{Row: -1, Col: 0}))
	assert.False(t, g.Contains(Cell{Row: 0, Col: -1}))
	assert.False(t, g.Contains(Cell{Row: 3, Col: 0}))
	assert.False(t, g.Contains(Cell{Row: 0, Col: 4}))
	assert.Equal(t, 12, g.Area())
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"up": Up, "TOP": Up, "down": Down, "bottom": Down, " Left ": Left, "right": Right,
	} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestOpposite(t *testing.T) {
	for _, d := range Directions {
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.NotEqual(t, d, d.Opposite())
	}
	assert.Equal(t, None, None.Opposite())
}
