package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/thomas-vilte/forkdiff/internal/models"
)

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	originalColor = color.New(color.Bold)
	footerColor   = color.New(color.FgHiBlack)
)

var tableHeader = []string{"REPOSITORY", "BRANCH", "STARS", "FORKS", "ISSUES", "SIZE", "LAST PUSH", "BEHIND", "AHEAD"}

// writeTable aligns the columns first and colors whole lines afterwards, so
// escape sequences never skew the column widths.
func writeTable(w io.Writer, r *models.DivergenceReport, records []models.ForkRecord) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	writeCells(tw, tableHeader)
	for _, rec := range records {
		writeCells(tw, []string{
			rec.FullName,
			rec.DefaultBranch,
			strconv.Itoa(rec.StargazersCount),
			strconv.Itoa(rec.Forks),
			strconv.Itoa(rec.OpenIssuesCount),
			strconv.Itoa(rec.Size),
			formatDate(rec),
			cell(rec.DiffFromOriginal),
			cell(rec.DiffToOriginal),
		})
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(&buf)
	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		switch line {
		case 0:
			text = headerColor.Sprint(text)
		case 1:
			text = originalColor.Sprint(text)
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	_, err := footerColor.Fprintln(w, footer(r))
	return err
}

func writeCells(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = io.WriteString(w, "\t")
		}
		_, _ = io.WriteString(w, c)
	}
	_, _ = io.WriteString(w, "\n")
}

func formatDate(rec models.ForkRecord) string {
	if rec.PushedAt.IsZero() {
		return "-"
	}
	return rec.PushedAt.UTC().Format("2006-01-02")
}

// cell is the visible label of a marker; forks not reached by the run show "?".
func cell(m models.DivergenceMarker) string {
	if m.IsEmpty() {
		return "?"
	}
	return m.Label()
}

func footer(r *models.DivergenceReport) string {
	msg := fmt.Sprintf("%d/%d forks compared, %d reused from equivalent forks", r.Processed, len(r.Forks), r.DedupHits)
	if r.RateLimited > 0 {
		msg += fmt.Sprintf(", %d not compared (API rate limit exceeded)", r.RateLimited)
	}
	if r.Cancelled {
		msg += " (cancelled)"
	}
	return msg
}
