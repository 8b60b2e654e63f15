package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	sqliteFileName = "cache.db"
)

// OpenStore opens the durable store of backend under dir. The memory backend
// has no durable layer and returns a nil Store.
func OpenStore(backend, dir string, ttl time.Duration) (Store, error) {
	switch backend {
	case BackendMemory:
		return nil, nil
	case BackendSQLite:
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating cache directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(dir, sqliteFileName), ttl)
	case BackendFile, "":
		return NewFileStore(dir, ttl)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// CloseStore releases the resources of stores that hold any.
func CloseStore(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
