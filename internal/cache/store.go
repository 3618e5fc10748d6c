package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// entryFileExtension is the file extension used for cache entries.
const entryFileExtension = ".json"

// Common cache errors.
var (
	// ErrNotFound means the key has never been stored.
	ErrNotFound = errors.New("cache entry not found")

	// ErrExpired means the entry exists on disk but its TTL has elapsed.
	ErrExpired = errors.New("cache entry expired")

	// ErrInvalidKey means the caller passed an empty key.
	ErrInvalidKey = errors.New("cache key cannot be empty")
)

// Store is a file-backed TTL key/value store. Each entry lives in its own
// JSON file under the store directory. I/O and corruption failures are
// returned as errors distinct from ErrNotFound/ErrExpired so callers can
// surface them instead of mistaking a broken store for a cold one.
type Store struct {
	// directory is the cache directory path.
	directory string

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// NewStore creates a file-backed cache store rooted at directory, creating
// the directory if it doesn't exist.
func NewStore(directory string) (*Store, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Store{directory: directory}, nil
}

// Get retrieves a cache entry by key.
// Returns ErrNotFound if the entry doesn't exist and ErrExpired if its TTL
// has elapsed; expired entries are purged on access. Unreadable or corrupt
// entries return a wrapped I/O error, never a silent miss.
func (s *Store) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	filePath := s.keyToFilePath(key)
	data, err := os.ReadFile(filePath)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", filepath.Base(filePath), unmarshalErr)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrExpired
	}

	return &entry, nil
}

// Put stores payload under key with the given TTL, overwriting any existing
// entry. The entry is written to a temp file and renamed into place so a
// concurrent reader never sees a partial write.
func (s *Store) Put(key string, payload json.RawMessage, ttlSeconds int) error {
	if key == "" {
		return ErrInvalidKey
	}
	if ttlSeconds <= 0 {
		return fmt.Errorf("ttl must be positive, got %d", ttlSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewEntry(key, payload, ttlSeconds)
	entryData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := s.keyToFilePath(key)

	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath) // Clean up temp file on error
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return nil
}

// Delete removes a cache entry by key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyToFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}

	return nil
}

// Clear removes all cache entries from the store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if filepath.Ext(entry.Name()) == entryFileExtension {
			filePath := filepath.Join(s.directory, entry.Name())
			if removeErr := os.Remove(filePath); removeErr != nil {
				return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), removeErr)
			}
		}
	}

	return nil
}

// CleanupExpired removes all expired cache entries. Entries that cannot be
// read or parsed are skipped.
func (s *Store) CleanupExpired() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryFileExtension {
			continue
		}

		filePath := filepath.Join(s.directory, dirEntry.Name())
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			continue
		}

		var entry Entry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
			continue
		}

		if entry.IsExpired() {
			_ = os.Remove(filePath)
		}
	}

	return nil
}

// Size returns the total size of the cache in bytes.
func (s *Store) Size() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if filepath.Ext(entry.Name()) == entryFileExtension {
			info, infoErr := entry.Info()
			if infoErr != nil {
				continue
			}
			totalSize += info.Size()
		}
	}

	return totalSize, nil
}

// Count returns the number of cache entries (including expired ones).
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == entryFileExtension {
			count++
		}
	}

	return count, nil
}

// Directory returns the cache directory path.
func (s *Store) Directory() string {
	return s.directory
}

// keyToFilePath converts a cache key to a file path. Keys are hex digests,
// but sanitize separators anyway in case a raw key ever reaches here.
func (s *Store) keyToFilePath(key string) string {
	safeKey := strings.ReplaceAll(key, "/", "_")
	safeKey = strings.ReplaceAll(safeKey, "\\", "_")
	safeKey = strings.ReplaceAll(safeKey, ":", "_")
	return filepath.Join(s.directory, safeKey+entryFileExtension)
}
