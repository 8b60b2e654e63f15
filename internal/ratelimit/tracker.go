// Package ratelimit tracks the shared API quota observed on responses.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/thomas-vilte/forkdiff/internal/metrics"
	"github.com/thomas-vilte/forkdiff/internal/models"
)

// Fetcher issues the dedicated quota query. It must not touch cached data.
type Fetcher func(ctx context.Context) (github.Rate, error)

// Tracker holds the most recent quota snapshot. It is overwritten wholesale by
// every response carrying quota metadata.
type Tracker struct {
	mu       sync.RWMutex
	snapshot models.QuotaSnapshot
	fetch    Fetcher
	recorder metrics.Recorder
}

func NewTracker(fetch Fetcher, recorder metrics.Recorder) *Tracker {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Tracker{fetch: fetch, recorder: recorder}
}

// Update overwrites the snapshot from rate metadata. Responses without quota
// headers (Limit == 0) leave the snapshot untouched.
func (t *Tracker) Update(rate github.Rate) {
	if rate.Limit == 0 {
		return
	}

	t.mu.Lock()
	t.snapshot = models.QuotaSnapshot{
		Known:     true,
		Remaining: rate.Remaining,
		Limit:     rate.Limit,
		ResetAt:   rate.Reset.Time,
	}
	t.mu.Unlock()

	t.recorder.SetQuota(rate.Remaining, rate.Limit)
}

// Snapshot returns the current values; Known is false before any response.
func (t *Tracker) Snapshot() models.QuotaSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// Refresh queries the quota endpoint and updates the snapshot.
func (t *Tracker) Refresh(ctx context.Context) error {
	if t.fetch == nil {
		return nil
	}
	rate, err := t.fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh rate limit: %w", err)
	}
	t.Update(rate)
	return nil
}

// Describe renders a snapshot as "left R / L, reset in D" or "?" when unknown.
func Describe(s models.QuotaSnapshot, now time.Time) string {
	if !s.Known {
		return "left ? / ?"
	}
	until := s.ResetAt.Sub(now).Round(time.Minute)
	if until < 0 {
		until = 0
	}
	return fmt.Sprintf("left %d / %d, reset in %s", s.Remaining, s.Limit, until)
}
