// Package store holds ScoreStore implementations for the best score.
//
// Every store keeps one integer under a key. A missing key reads as 0.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultKey is the key the best score is kept under.
const DefaultKey = "max_score"

// FileStore keeps scores in a JSON object on disk, one entry per key.
type FileStore struct {
	path  string
	key   string
	mutex sync.Mutex
}

func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: path, key: key}
}

// Read returns the stored score, or 0 if the file or key is missing.
func (fs *FileStore) Read() (int, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	scores, err := fs.load()
	if err != nil {
		return 0, err
	}
	return scores[fs.key], nil
}

// Write stores score under the key, keeping other keys in the file.
func (fs *FileStore) Write(score int) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	scores, err := fs.load()
	if err != nil {
		return err
	}
	scores[fs.key] = score

	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write score file: %w", err)
	}
	return nil
}

func (fs *FileStore) load() (map[string]int, error) {
	scores := make(map[string]int)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scores, nil
		}
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}
	if len(data) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("failed to parse score file %s: %w", fs.path, err)
	}
	return scores, nil
}
