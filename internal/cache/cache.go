// Package cache persists the last discovered game list so the picker can open
// without waiting for a scan.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"steampick/internal/models"
)

// ErrMiss is returned by Load when there is no usable cached list
var ErrMiss = errors.New("cache miss")

// Store reads and writes the cached game list as JSON
type Store struct {
	path string
}

// New creates a Store backed by the file at path
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached games. A missing, unreadable, corrupt or empty
// cache is reported as ErrMiss wrapping the cause, so callers only need
// errors.Is(err, ErrMiss) to decide to scan.
func (s *Store) Load() ([]models.Game, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMiss, err)
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMiss, s.path, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMiss, s.path)
	}

	return games, nil
}

// Save writes games to the cache. The file is replaced atomically so a
// concurrent Load never sees a partial write.
func (s *Store) Save(games []models.Game) error {
	if games == nil {
		games = []models.Game{}
	}

	data, err := json.Marshal(games)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}
