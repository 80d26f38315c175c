package ui

import (
	"slices"

	"golang.org/x/exp/maps"

	"snake-engine/game/types"
)

// Drawn is a cell currently shown on screen.
type Drawn struct {
	Handle types.Handle
	Cell   types.Cell
	Color  types.ColorTag
}

// Layer keeps track of drawn cells by handle. It satisfies game.Renderer, and the immediate-mode
// front ends repaint from it every frame. One cell may be covered by several live handles for a
// moment, e.g. a new head drawn before the food under it is erased.
type Layer struct {
	next  types.Handle
	cells map[types.Handle]Drawn
}

func NewLayer() *Layer {
	return &Layer{cells: make(map[types.Handle]Drawn)}
}

func (l *Layer) DrawCell(c types.Cell, color types.ColorTag) types.Handle {
	l.next++
	l.cells[l.next] = Drawn{Handle: l.next, Cell: c, Color: color}
	return l.next
}

// EraseCell forgets h. Unknown handles are ignored.
func (l *Layer) EraseCell(h types.Handle) {
	delete(l.cells, h)
}

func (l *Layer) Lookup(h types.Handle) (Drawn, bool) {
	d, ok := l.cells[h]
	return d, ok
}

// At returns the most recently drawn live cell at c.
func (l *Layer) At(c types.Cell) (Drawn, bool) {
	var top Drawn
	found := false
	for _, d := range l.cells {
		if d.Cell == c && (!found || d.Handle > top.Handle) {
			top, found = d, true
		}
	}
	return top, found
}

func (l *Layer) Len() int {
	return len(l.cells)
}

// Cells returns the drawn cells in drawing order.
func (l *Layer) Cells() []Drawn {
	handles := maps.Keys(l.cells)
	slices.Sort(handles)
	out := make([]Drawn, 0, len(handles))
	for _, h := range handles {
		out = append(out, l.cells[h])
	}
	return out
}
