// Package dedup reuses divergence results across forks that look identical.
//
// Two forks with the same size and the same last push time are assumed to
// carry the same commits relative to the original. This is a heuristic, not a
// proof: forks that happen to match on the selected attributes while holding
// different commits receive the first fork's markers.
package dedup

import (
	"strconv"
	"strings"
	"time"

	"github.com/thomas-vilte/forkdiff/internal/models"
)

// Attributes selects which fork attributes form the equivalence key.
type Attributes struct {
	BySize     bool `json:"by_size" yaml:"by_size"`
	ByPushDate bool `json:"by_push_date" yaml:"by_push_date"`
}

// Enabled reports whether any attribute participates in the key.
func (a Attributes) Enabled() bool {
	return a.BySize || a.ByPushDate
}

type markerPair struct {
	from models.DivergenceMarker
	to   models.DivergenceMarker
}

// Deduplicator maps equivalence keys to the marker pair of the first fork computed
// with that key. It never evicts and lives for a single engine run.
type Deduplicator struct {
	attrs Attributes
	seen  map[string]markerPair
}

func New(attrs Attributes) *Deduplicator {
	return &Deduplicator{
		attrs: attrs,
		seen:  make(map[string]markerPair),
	}
}

// Key concatenates the configured attribute values of fork. An empty key disables
// deduplication for that fork.
func Key(fork *models.ForkRecord, attrs Attributes) string {
	var b strings.Builder
	if attrs.BySize {
		b.WriteString(strconv.Itoa(fork.Size))
		b.WriteString("_")
	}
	if attrs.ByPushDate {
		if !fork.PushedAt.IsZero() {
			b.WriteString(fork.PushedAt.UTC().Format(time.RFC3339))
		}
		b.WriteString("_")
	}
	return b.String()
}

// Lookup copies a previously recorded marker pair onto fork and reports whether one existed.
func (d *Deduplicator) Lookup(fork *models.ForkRecord) bool {
	key := Key(fork, d.attrs)
	if key == "" {
		return false
	}

	pair, ok := d.seen[key]
	if !ok {
		return false
	}

	fork.DiffFromOriginal = pair.from
	fork.DiffToOriginal = pair.to
	return true
}

// Record stores the markers of fork under its key. Forks with an empty key are ignored.
func (d *Deduplicator) Record(fork *models.ForkRecord) {
	key := Key(fork, d.attrs)
	if key == "" {
		return
	}

	d.seen[key] = markerPair{
		from: fork.DiffFromOriginal,
		to:   fork.DiffToOriginal,
	}
}

// Len returns the number of recorded equivalence classes.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
