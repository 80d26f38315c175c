// Package stats records finished games and persists them as JSON.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GameRecord holds the outcome of one finished game.
type GameRecord struct {
	GameID    uuid.UUID `json:"gameId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     int       `json:"score"`
}

// Duration is how long the game lasted.
func (r GameRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Recorder collects GameRecords. It is safe for concurrent use.
type Recorder struct {
	path  string
	games []GameRecord
	mutex sync.RWMutex
}

// NewRecorder creates a Recorder backed by path. An empty path keeps records in memory only.
func NewRecorder(path string) *Recorder {
	return &Recorder{
		path:  path,
		games: make([]GameRecord, 0),
	}
}

// AddGame appends a finished game.
func (r *Recorder) AddGame(id uuid.UUID, score int, startTime, endTime time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.games = append(r.games, GameRecord{
		GameID:    id,
		StartTime: startTime,
		EndTime:   endTime,
		Score:     score,
	})
}

// Records returns a copy of all records in insertion order.
func (r *Recorder) Records() []GameRecord {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]GameRecord, len(r.games))
	copy(out, r.games)
	return out
}

func (r *Recorder) GamesPlayed() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.games)
}

// AverageScore returns the mean score, 0 with no games.
func (r *Recorder) AverageScore() float64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(r.games) == 0 {
		return 0
	}
	total := 0
	for _, g := range r.games {
		total += g.Score
	}
	return float64(total) / float64(len(r.games))
}

func (r *Recorder) MaxScore() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	maxScore := 0
	for _, g := range r.games {
		if g.Score > maxScore {
			maxScore = g.Score
		}
	}
	return maxScore
}

// AverageDuration returns the mean game length.
func (r *Recorder) AverageDuration() time.Duration {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(r.games) == 0 {
		return 0
	}
	var total time.Duration
	for _, g := range r.games {
		total += g.Duration()
	}
	return total / time.Duration(len(r.games))
}

// Save writes all records to the backing file.
func (r *Recorder) Save() error {
	if r.path == "" {
		return nil
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(r.games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

// Load replaces the records with the file contents. A missing file leaves the stats empty.
func (r *Recorder) Load() error {
	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var games []GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		return fmt.Errorf("failed to parse stats file %s: %w", r.path, err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.games = games
	return nil
}
