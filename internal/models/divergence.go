package models

import (
	"strconv"
	"strings"
	"time"
)

const (
	sortPrefixOpen  = "<!--"
	sortPrefixClose = "-->"
	sortKeyWidth    = 4
	zeroSortKey     = "0000"
)

// Direction is the side of a fork comparison.
type Direction string

const (
	// Behind counts commits of the original the fork is missing.
	Behind Direction = "behind"
	// Ahead counts commits of the fork the original does not have.
	Ahead Direction = "ahead"
)

// Glyph is the visible sign rendered in front of a commit count.
func (d Direction) Glyph() string {
	if d == Behind {
		return "-"
	}
	return "+"
}

// DivergenceMarker is a rendered, string-sortable divergence cell. It starts with
// a hidden zero-padded commit count ("<!--0042-->") so plain string ordering of
// markers follows numeric commit order.
type DivergenceMarker string

// IsEmpty reports whether the marker was never populated.
func (m DivergenceMarker) IsEmpty() bool {
	return m == ""
}

// SortKey returns the 4-digit commit count prefix, "0000" when absent.
func (m DivergenceMarker) SortKey() string {
	s := string(m)
	if !strings.HasPrefix(s, sortPrefixOpen) {
		return zeroSortKey
	}
	end := strings.Index(s, sortPrefixClose)
	if end < len(sortPrefixOpen)+sortKeyWidth {
		return zeroSortKey
	}
	return s[len(sortPrefixOpen):end]
}

// Count parses the commit count encoded in the sort prefix.
func (m DivergenceMarker) Count() int {
	n, err := strconv.Atoi(m.SortKey())
	if err != nil {
		return 0
	}
	return n
}

// Label returns the visible text of the marker: "-3", "+12", "0" or a sentinel message.
func (m DivergenceMarker) Label() string {
	s := string(m)
	if i := strings.Index(s, sortPrefixClose); strings.HasPrefix(s, sortPrefixOpen) && i >= 0 {
		s = s[i+len(sortPrefixClose):]
	}
	if strings.HasSuffix(s, "</a>") {
		s = strings.TrimSuffix(s, "</a>")
		if i := strings.LastIndex(s, ">"); i >= 0 {
			s = s[i+1:]
		}
	}
	return s
}

// QuotaSnapshot is the most recently observed rate-limit state.
// Known is false until the first response carrying quota metadata arrives.
type QuotaSnapshot struct {
	Known     bool      `json:"known" yaml:"known"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Limit     int       `json:"limit" yaml:"limit"`
	ResetAt   time.Time `json:"reset_at" yaml:"reset_at"`
}

type (
	// Comparison is the projected payload of a compare request.
	Comparison struct {
		Commits []CommitSummary `json:"commits"`
	}

	// CommitSummary keeps only the commit fields needed to render a marker.
	CommitSummary struct {
		SHA         string    `json:"sha"`
		Date        time.Time `json:"date"`
		Message     string    `json:"message"`
		AuthorLogin string    `json:"author_login,omitempty"`
	}
)
