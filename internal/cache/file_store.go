package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one JSON file per entry under dir. Files older than ttl belong
// to a previous session and are ignored.
type FileStore struct {
	cacheDir string
	ttl      time.Duration
}

// DefaultDir returns ~/.forkdiff/cache.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".forkdiff", "cache"), nil
}

func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating cache directory: %w", err)
	}

	store := &FileStore{
		cacheDir: dir,
		ttl:      ttl,
	}

	_ = store.CleanExpired()

	return store, nil
}

// hashKey hashes a normalized URL into a file name
func (s *FileStore) hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.cacheDir, s.hashKey(key)+".json")
}

func (s *FileStore) Load(key string) ([]byte, error) {
	filePath := s.path(key)

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cache: %w", err)
	}

	if s.expired(info.ModTime()) {
		_ = os.Remove(filePath)
		return nil, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading cache: %w", err)
	}
	return data, nil
}

func (s *FileStore) Save(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.cacheDir, ".entry-*")
	if err != nil {
		return fmt.Errorf("error saving cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving cache: %w", err)
	}
	return nil
}

func (s *FileStore) expired(modTime time.Time) bool {
	return s.ttl > 0 && time.Since(modTime) > s.ttl
}

// CleanExpired removes entries left over from previous sessions
func (s *FileStore) CleanExpired() error {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return fmt.Errorf("error reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if s.expired(info.ModTime()) {
			_ = os.Remove(filepath.Join(s.cacheDir, entry.Name()))
		}
	}

	return nil
}

// Clean removes the whole cache directory
func (s *FileStore) Clean() error {
	return os.RemoveAll(s.cacheDir)
}
