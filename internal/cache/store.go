// Package cache provides a small key/value store with per-entry expiry.
//
// It backs the "latest version" lookups of the binary resolver, which must
// survive across process invocations (CI jobs typically run biomectl many
// times a day). Only get, set and absent are supported.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store is a string key/value store with expiry.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent or expired.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key for ttl.
	Set(key, value string, ttl time.Duration) error
}

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// FileStore keeps one JSON file per key inside a directory.
type FileStore struct {
	dir   string
	clock Clock
}

// NewFileStore creates a file-backed store rooted at dir. The directory is
// created lazily on the first Set.
func NewFileStore(dir string, clock Clock) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &FileStore{dir: dir, clock: clock}, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read cache entry: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}

	if e.expired(s.clock.Now()) {
		// Stale entries are left for the next Set to overwrite
		return "", false, nil
	}

	return e.Value, true, nil
}

// Set implements Store. The entry is written to a temp file and renamed into
// place so concurrent readers never see a torn write.
func (s *FileStore) Set(key, value string, ttl time.Duration) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.Marshal(entry{Value: value, ExpiresAt: s.clock.Now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename cache entry: %w", err)
	}

	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps a key to a safe file name.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = RealClock{}
	}
	return &MemoryStore{clock: clock, entries: make(map[string]entry)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(s.clock.Now()) {
		return "", false, nil
	}
	return e.Value, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{Value: value, ExpiresAt: s.clock.Now().Add(ttl)}
	return nil
}
