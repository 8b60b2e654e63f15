// Package cache keeps projected API payloads with their revalidation tokens for
// the duration of a session.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/thomas-vilte/forkdiff/internal/logger"
	"github.com/thomas-vilte/forkdiff/internal/metrics"
)

// Entry is a cached, already projected payload.
type Entry struct {
	ETag     string          `json:"etag"`
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Store is the durable layer behind the in-memory map. Load returns (nil, nil) on a miss.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Clean() error
}

// Stats counts cache outcomes of the current process.
type Stats struct {
	Hits   int
	Misses int
}

// ResponseCache maps normalized request URLs to entries. The in-memory map is
// authoritative for the session; the durable store is best effort.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[string]Entry
	store    Store
	freshFor time.Duration
	recorder metrics.Recorder
	now      func() time.Time
	stats    Stats
}

type Option func(*ResponseCache)

// WithFreshFor lets entries younger than d be served without revalidation.
// Zero (the default) means every cached entry is revalidated.
func WithFreshFor(d time.Duration) Option {
	return func(c *ResponseCache) {
		c.freshFor = d
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *ResponseCache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// New creates a cache backed by store. A nil store keeps entries in memory only.
func New(store Store, opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries:  make(map[string]Entry),
		store:    store,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize returns the lookup key of a request URL.
func Normalize(url string) string {
	return strings.ToLower(url)
}

// Peek returns the entry stored for url. A durable hit is promoted into memory;
// malformed durable entries are reported as misses.
func (c *ResponseCache) Peek(url string) (Entry, bool) {
	key := Normalize(url)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		return entry, true
	}

	if c.store == nil {
		return Entry{}, false
	}

	data, err := c.store.Load(key)
	if err != nil || data == nil {
		if err != nil {
			logger.Debug(context.Background(), "durable cache read failed", "key", key, "error", err)
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || !hasPayload(entry) {
		logger.Debug(context.Background(), "discarding malformed cache entry", "key", key)
		return Entry{}, false
	}

	c.entries[key] = entry
	return entry, true
}

// hasPayload rejects entries whose payload is missing or a JSON null, which
// would decode into a zero projection.
func hasPayload(e Entry) bool {
	return e.Payload != nil && !bytes.Equal(bytes.TrimSpace(e.Payload), []byte("null"))
}

// Put stores payload and its revalidation token in memory and, best effort, in the durable store.
func (c *ResponseCache) Put(url string, payload json.RawMessage, etag string) {
	key := Normalize(url)
	entry := Entry{
		ETag:     etag,
		StoredAt: c.now(),
		Payload:  payload,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry

	if c.store == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err == nil {
		err = c.store.Save(key, data)
	}
	if err != nil {
		logger.Debug(context.Background(), "durable cache write failed, keeping entry in memory", "key", key, "error", err)
	}
}

// IsFresh reports whether entry may be served without a conditional request.
func (c *ResponseCache) IsFresh(entry Entry) bool {
	return c.freshFor > 0 && c.now().Sub(entry.StoredAt) < c.freshFor
}

// RecordHit counts a payload served from the cache, either fresh or after a "not modified" reply.
func (c *ResponseCache) RecordHit(fresh bool) {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()

	if fresh {
		c.recorder.IncCacheResult(metrics.CacheFresh)
		return
	}
	c.recorder.IncCacheResult(metrics.CacheRevalidated)
}

// RecordMiss counts a payload that had to be downloaded.
func (c *ResponseCache) RecordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	c.recorder.IncCacheResult(metrics.CacheMiss)
}

func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clean drops every entry, including the durable ones.
func (c *ResponseCache) Clean() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if c.store == nil {
		return nil
	}
	return c.store.Clean()
}
