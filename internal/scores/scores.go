// Package scores keeps the best winning time per board.
package scores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultPath is scores.json under the user config dir, or the working
// directory when there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "booscaminas_scores.json"
	}
	return filepath.Join(dir, "booscaminas", "scores.json")
}

// Key identifies a board configuration.
func Key(name string, rows, cols, bombs int) string {
	return fmt.Sprintf("%s_%dx%d_%d", name, cols, rows, bombs)
}

type Store struct {
	path string
	best map[string]int
}

// Open loads the store at path. Missing or unreadable files start empty.
func Open(path string) *Store {
	s := &Store{path: path, best: map[string]int{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			Log.WithError(err).WithField("path", path).Warn("reading scores")
		}
		return s
	}
	var out map[string]int
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		Log.WithField("path", path).Warn("ignoring corrupt scores file")
		return s
	}
	s.best = out
	return s
}

func (s *Store) Best(key string) (int, bool) {
	v, ok := s.best[key]
	return v, ok && v > 0
}

// Record stores seconds for key when it beats the previous best and saves
// the file. Times below one second count as one.
func (s *Store) Record(key string, seconds int) (bool, error) {
	if seconds <= 0 {
		seconds = 1
	}
	if best, ok := s.Best(key); ok && best <= seconds {
		return false, nil
	}
	s.best[key] = seconds
	return true, s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create scores dir: %w", err)
	}
	data, err := json.MarshalIndent(s.best, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return nil
}

// Lines lists "key : Ns" entries sorted by key.
func (s *Store) Lines() []string {
	keys := make([]string, 0, len(s.best))
	for k := range s.best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s : %ds", k, s.best[k]))
	}
	return lines
}
