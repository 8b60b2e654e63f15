package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at dbPath. Use ":memory:" for tests.
func NewSQLiteStore(dbPath string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, ttl: ttl}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS response_cache (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		stored_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_response_cache_stored_at ON response_cache(stored_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	if s.ttl > 0 {
		_, err := s.db.Exec("DELETE FROM response_cache WHERE stored_at < ?", time.Now().Add(-s.ttl).Unix())
		return err
	}
	return nil
}

func (s *SQLiteStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	var storedAt int64
	err := s.db.QueryRow("SELECT data, stored_at FROM response_cache WHERE key = ?", key).Scan(&data, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cache entry: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(storedAt, 0)) > s.ttl {
		return nil, nil
	}
	return data, nil
}

func (s *SQLiteStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO response_cache (key, data, stored_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET data = excluded.data, stored_at = excluded.stored_at",
		key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clean() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM response_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
