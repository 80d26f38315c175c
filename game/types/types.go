package types

import (
	"fmt"
	"strings"
)

// Cell is a 0-indexed grid coordinate.
type Cell struct {
	Row int
	Col int
}

// Move returns the cell one step away in the given direction.
// For an unknown direction the cell is returned unchanged and ok is false.
func (c Cell) Move(d Direction) (next Cell, ok bool) {
	dr, dc, ok := d.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}, ok
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid represents the game grid dimensions
type Grid struct {
	Rows    int
	Columns int
}

// Contains reports whether c lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < g.Rows && c.Col < g.Columns
}

// Area is the number of cells in the grid.
func (g Grid) Area() int {
	return g.Rows * g.Columns
}

// Direction is a cardinal movement direction.
type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

// Directions lists the four valid directions in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Delta converts a Direction into a row/column offset.
func (d Direction) Delta() (dr, dc int, ok bool) {
	switch d {
	case Up:
		return -1, 0, true
	case Right:
		return 0, 1, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	default:
		return 0, 0, false
	}
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts up/top, down/bottom, left and right in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "top":
		return Up, nil
	case "down", "bottom":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// ColorTag tells a renderer what kind of cell it is drawing.
type ColorTag int

const (
	SnakeColor ColorTag = iota
	FoodColor
)

// Handle identifies a drawn cell so that it can be erased later.
type Handle int64
