// Package report renders a divergence report for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/thomas-vilte/forkdiff/internal/models"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatHTML  Format = "html"
)

type SortBy string

const (
	SortStars  SortBy = "stars"
	SortBehind SortBy = "behind"
	SortAhead  SortBy = "ahead"
	SortPushed SortBy = "pushed"
	SortNone   SortBy = "none"
)

var (
	formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatHTML}
	sorts   = []SortBy{SortStars, SortBehind, SortAhead, SortPushed, SortNone}
)

type Options struct {
	Format Format
	SortBy SortBy
}

// ParseFormat validates a --format value. Empty means table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (expected one of %s)", s, joinValues(formats))
}

// ParseSort validates a --sort value. Empty means stars.
func ParseSort(s string) (SortBy, error) {
	if s == "" {
		return SortStars, nil
	}
	for _, v := range sorts {
		if string(v) == strings.ToLower(s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported sort %q (expected one of %s)", s, joinValues(sorts))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Row is a record as emitted by the machine readable formats: the raw markers
// plus their visible labels.
type Row struct {
	models.ForkRecord `yaml:",inline"`
	Behind            string `json:"behind" yaml:"behind"`
	Ahead             string `json:"ahead" yaml:"ahead"`
}

// Document is the serialized form of a report.
type Document struct {
	Repository  string               `json:"repository" yaml:"repository"`
	Processed   int                  `json:"processed" yaml:"processed"`
	Total       int                  `json:"total" yaml:"total"`
	DedupHits   int                  `json:"dedup_hits" yaml:"dedup_hits"`
	RateLimited int                  `json:"rate_limited" yaml:"rate_limited"`
	Cancelled   bool                 `json:"cancelled" yaml:"cancelled"`
	Quota       models.QuotaSnapshot `json:"quota" yaml:"quota"`
	Records     []Row                `json:"records" yaml:"records"`
}

// Write renders r to w. The original repository is always the first record;
// forks follow in the requested order.
func Write(w io.Writer, r *models.DivergenceReport, opts Options) error {
	records := Sort(r, opts.SortBy)

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(newDocument(r, records))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(r, records)); err != nil {
			return err
		}
		return enc.Close()
	case FormatHTML:
		return writeHTML(w, r, records)
	case FormatTable, "":
		return writeTable(w, r, records)
	default:
		return fmt.Errorf("unsupported format %q", opts.Format)
	}
}

func newDocument(r *models.DivergenceReport, records []models.ForkRecord) Document {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{
			ForkRecord: rec,
			Behind:     rec.DiffFromOriginal.Label(),
			Ahead:      rec.DiffToOriginal.Label(),
		}
	}
	return Document{
		Repository:  r.Original.FullName,
		Processed:   r.Processed,
		Total:       len(r.Forks),
		DedupHits:   r.DedupHits,
		RateLimited: r.RateLimited,
		Cancelled:   r.Cancelled,
		Quota:       r.Quota,
		Records:     rows,
	}
}

// Sort returns the original followed by the forks ordered by key. Ties keep
// the discovery order. Marker keys compare on their sortable prefix.
func Sort(r *models.DivergenceReport, by SortBy) []models.ForkRecord {
	forks := make([]models.ForkRecord, len(r.Forks))
	copy(forks, r.Forks)

	var less func(a, b *models.ForkRecord) bool
	switch by {
	case SortBehind:
		less = func(a, b *models.ForkRecord) bool {
			return a.DiffFromOriginal.SortKey() > b.DiffFromOriginal.SortKey()
		}
	case SortAhead:
		less = func(a, b *models.ForkRecord) bool {
			return a.DiffToOriginal.SortKey() > b.DiffToOriginal.SortKey()
		}
	case SortPushed:
		less = func(a, b *models.ForkRecord) bool { return a.PushedAt.After(b.PushedAt) }
	case SortNone:
	default:
		less = func(a, b *models.ForkRecord) bool { return a.StargazersCount > b.StargazersCount }
	}
	if less != nil {
		sort.SliceStable(forks, func(i, j int) bool { return less(&forks[i], &forks[j]) })
	}

	return append([]models.ForkRecord{r.Original}, forks...)
}
