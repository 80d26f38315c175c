package manager

import (
	"fmt"
)

// BestScoreStore reads and writes the persisted best score.
type BestScoreStore interface {
	Read() (int, error)
	Write(score int) error
}

// ScoreManager tracks the score of one game and persists it when the game ends.
type ScoreManager struct {
	store BestScoreStore
	score int
}

func NewScoreManager(store BestScoreStore) *ScoreManager {
	return &ScoreManager{
		store: store,
	}
}

// Increment adds one point for eaten food.
func (sm *ScoreManager) Increment() int {
	sm.score++
	return sm.score
}

func (sm *ScoreManager) Score() int {
	return sm.score
}

// HighScore returns the stored best score.
func (sm *ScoreManager) HighScore() (int, error) {
	best, err := sm.store.Read()
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	return best, nil
}

// Persist writes the current score if it beats the stored best and reports whether it did.
func (sm *ScoreManager) Persist() (bool, error) {
	best, err := sm.HighScore()
	if err != nil {
		return false, err
	}
	if sm.score <= best {
		return false, nil
	}
	if err := sm.store.Write(sm.score); err != nil {
		return false, fmt.Errorf("write best score: %w", err)
	}
	return true, nil
}
