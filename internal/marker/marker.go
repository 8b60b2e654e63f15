// Package marker renders compare results into sortable divergence markers.
package marker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/forkdiff/internal/models"
)

const (
	shortSHALength   = 7
	maxMessageLength = 100
	commitURLFormat  = "https://github.com/%s/%s/commit/%s"
	noCommonHistory  = "No common history"
)

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
)

func sortPrefix(count int) string {
	return fmt.Sprintf("<!--%04d-->", count)
}

// Zero is the marker of a comparison without commits and of comparisons that failed for unknown reasons.
func Zero() models.DivergenceMarker {
	return models.DivergenceMarker(sortPrefix(0) + "0")
}

// NoCommonHistory is the marker of a fork whose branch shares no history with the original.
func NoCommonHistory() models.DivergenceMarker {
	return models.DivergenceMarker(sortPrefix(0) + noCommonHistory)
}

// Render builds the marker for one direction of a fork comparison. The detail
// block lists every commit in the order received and is HTML-escaped so it can be
// embedded in an attribute without injection.
func Render(direction models.Direction, comparison *models.Comparison, fork *models.ForkRecord) models.DivergenceMarker {
	if comparison == nil || len(comparison.Commits) == 0 {
		return Zero()
	}

	lines := make([]string, 0, len(comparison.Commits))
	for _, c := range comparison.Commits {
		lines = append(lines, commitLine(c, fork))
	}
	details := "<pre>" + htmlEscaper.Replace(strings.Join(lines, "\n")) + "</pre>"

	count := len(comparison.Commits)
	var b strings.Builder
	b.WriteString(sortPrefix(count))
	b.WriteString(`<a tabindex="0" class="btn btn-sm btn-outline-secondary" data-toggle="popover" data-trigger="focus" data-html="true" data-placement="bottom" title="Commits" data-content="`)
	b.WriteString(details)
	b.WriteString(`">`)
	b.WriteString(direction.Glyph())
	fmt.Fprintf(&b, "%d", count)
	b.WriteString("</a>")

	return models.DivergenceMarker(b.String())
}

func commitLine(c models.CommitSummary, fork *models.ForkRecord) string {
	sha := shortSHA(c.SHA)
	link := fmt.Sprintf(`<a href="%s">%s</a>`, fmt.Sprintf(commitURLFormat, fork.Owner.Login, fork.Name, sha), sha)

	author := c.AuthorLogin
	if author == "" {
		author = "-"
	}

	return fmt.Sprintf("%s %s %s - %s", link, c.Date.UTC().Format("2006-01-02"), author, firstLine(c.Message))
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) <= maxMessageLength {
		return line
	}
	return string([]rune(line)[:maxMessageLength])
}
