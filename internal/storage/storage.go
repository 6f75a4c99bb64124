// Package storage provides the durable key-value store backing layout and
// collection persistence.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// ErrQuotaExceeded indicates a write failed because the underlying medium is
// out of space. Callers must preserve in-memory state when they see it.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is a durable string key-value store. Get reports whether the key was
// present; Set persists the value or fails without partial writes.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileStore persists each key as one file under a base directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file-backed store rooted at
// os.UserConfigDir()/wall-gallery/store.
func NewFileStore() (*FileStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "wall-gallery", "store")
	return NewFileStoreAt(dir)
}

// NewFileStoreAt creates a file-backed store rooted at the given directory.
func NewFileStoreAt(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the value stored for key. A missing key is not an error.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the value for key atomically (write to a temp file, then rename)
// so a failed write never leaves a truncated blob behind.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		os.Remove(tmp)
		if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
			return fmt.Errorf("write %s: %w", key, ErrQuotaExceeded)
		}
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// keyPath maps a key to a file path, replacing separators so keys cannot
// escape the store directory.
func (s *FileStore) keyPath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string

	// FailWrites makes every Set fail with ErrQuotaExceeded.
	FailWrites bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get reads the value stored for key.
func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores the value for key.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrQuotaExceeded
	}
	s.values[key] = value
	return nil
}
