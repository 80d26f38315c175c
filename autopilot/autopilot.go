// Package autopilot steers a snake toward the food without looking further than one move ahead.
package autopilot

import (
	"snake-engine/game"
	"snake-engine/game/types"
)

// Next picks the direction for the coming step.
//
// Moves that hit a wall or any body cell, tail included, are discarded. Among the safe moves the
// one closest to the food wins; on a tie the current direction is preferred. With no safe move
// the current direction is kept.
func Next(s game.Snapshot) types.Direction {
	if len(s.Body) == 0 {
		return s.Direction
	}
	head := s.Body[0]

	best := s.Direction
	bestDist := -1
	for _, d := range types.Directions {
		next, _ := head.Move(d)
		if isDanger(s, next) {
			continue
		}
		dist := manhattanDistance(next, s.Food)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && d == s.Direction) {
			best = d
			bestDist = dist
		}
	}
	return best
}

// isDanger reports whether moving the head onto p ends the game.
func isDanger(s game.Snapshot, p types.Cell) bool {
	if !s.Grid.Contains(p) {
		return true
	}
	for _, c := range s.Body {
		if c == p {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func manhattanDistance(p1, p2 types.Cell) int {
	return abs(p1.Row-p2.Row) + abs(p1.Col-p2.Col)
}
