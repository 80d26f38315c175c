package entity

import (
	"snake-engine/game/types"
)

// Segment is one body cell together with the handle it was drawn with.
type Segment struct {
	Cell   types.Cell
	Handle types.Handle
}

// Snake is the ordered body, head first.
type Snake struct {
	Body      []Segment
	Direction types.Direction
}

// NewSnake copies the given cells into a fresh body. The caller's slice is never aliased.
func NewSnake(cells []types.Cell, dir types.Direction) *Snake {
	body := make([]Segment, len(cells))
	for i, c := range cells {
		body[i] = Segment{Cell: c}
	}
	return &Snake{
		Body:      body,
		Direction: dir,
	}
}

// Move prepends a new head.
func (s *Snake) Move(newHead types.Cell, h types.Handle) {
	s.Body = append(s.Body, Segment{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = Segment{Cell: newHead, Handle: h}
}

// RemoveTail pops the last segment and returns it.
func (s *Snake) RemoveTail() Segment {
	tail := s.Body[len(s.Body)-1]
	s.Body = s.Body[:len(s.Body)-1]
	return tail
}

func (s *Snake) GetHead() types.Cell {
	return s.Body[0].Cell
}

// Occupies reports whether any segment, tail included, sits on c.
func (s *Snake) Occupies(c types.Cell) bool {
	for _, seg := range s.Body {
		if seg.Cell == c {
			return true
		}
	}
	return false
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Cells returns a copy of the body cells, head first.
func (s *Snake) Cells() []types.Cell {
	cells := make([]types.Cell, len(s.Body))
	for i, seg := range s.Body {
		cells[i] = seg.Cell
	}
	return cells
}

// SetDirection stores the direction used by the next move. Reversal is not blocked.
func (s *Snake) SetDirection(dir types.Direction) {
	s.Direction = dir
}
