package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a durable key-value store of JSON-encoded strings, one file per
// key under a data directory. It is the agent-side analog of origin-scoped
// browser storage: reads of missing or unreadable keys return the empty
// string, and concurrent writers race with last-writer-wins.
type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get returns the stored value for key, or "" when absent or unreadable.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return ""
	}
	return string(data)
}

// Set persists value under key, replacing any previous value. The write goes
// through a temp file and rename so readers never observe a partial value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

var keySanitizer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, keySanitizer.Replace(key)+".json")
}
