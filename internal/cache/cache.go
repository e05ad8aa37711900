// Package cache provides the key-value store the search collector uses
// to avoid re-querying facilities across runs. The store is injected
// into the pipeline rather than accessed as ambient file state, so
// tests substitute the in-memory implementation.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Store is a durable string-keyed JSON value store.
type Store interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	// Put records a value for key. Durability may be deferred to Flush.
	Put(ctx context.Context, key string, value json.RawMessage) error
	// Flush persists any buffered writes.
	Flush(ctx context.Context) error
	Close() error
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Flush(context.Context) error { return nil }
func (s *MemoryStore) Close() error                { return nil }

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// FileStore keeps the whole cache as one flat JSON object on disk,
// loaded at open and rewritten on Flush.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewFile opens (or initializes) a JSON file cache at path. A corrupt
// or unreadable file logs a warning and starts empty rather than
// failing the run.
func NewFile(path string) *FileStore {
	s := &FileStore{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("cache: read failed, starting empty", zap.String("path", path), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		zap.L().Warn("cache: corrupt cache file, starting empty", zap.String("path", path), zap.Error(err))
		s.data = make(map[string]json.RawMessage)
	}
	return s
}

func (s *FileStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Flush rewrites the cache file. Writes go through a temp file and
// rename so an interrupted run never truncates the existing cache.
func (s *FileStore) Flush(context.Context) error {
	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return eris.Wrap(err, "cache: marshal")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "cache: create dir %s", dir)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write %s", tmp)
	}
	return eris.Wrap(os.Rename(tmp, s.path), "cache: rename")
}

func (s *FileStore) Close() error { return nil }
