package marker

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/forkdiff/internal/models"
)

func testFork() *models.ForkRecord {
	return &models.ForkRecord{
		FullName: "alice/widget",
		Name:     "widget",
		Owner:    models.Owner{Login: "alice"},
	}
}

func commits(n int) *models.Comparison {
	c := &models.Comparison{}
	for i := 0; i < n; i++ {
		c.Commits = append(c.Commits, models.CommitSummary{
			SHA:         "0123456789abcdef",
			Date:        time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC),
			Message:     "fix things",
			AuthorLogin: "bob",
		})
	}
	return c
}

func TestRender(t *testing.T) {
	t.Run("should render the zero marker for an empty commit list", func(t *testing.T) {
		m := Render(models.Ahead, &models.Comparison{}, testFork())

		assert.Equal(t, Zero(), m)
		assert.Equal(t, "0", m.Label())
		assert.Equal(t, 0, m.Count())
	})

	t.Run("should render glyph, count and sortable prefix", func(t *testing.T) {
		behind := Render(models.Behind, commits(3), testFork())
		ahead := Render(models.Ahead, commits(12), testFork())

		assert.True(t, strings.HasPrefix(string(behind), "<!--0003-->"))
		assert.Equal(t, "-3", behind.Label())
		assert.Equal(t, 3, behind.Count())
		assert.Equal(t, "+12", ahead.Label())
		assert.Equal(t, "0012", ahead.SortKey())
	})

	t.Run("should build an escaped detail line per commit", func(t *testing.T) {
		comparison := &models.Comparison{Commits: []models.CommitSummary{
			{
				SHA:     "abcdef0123456789",
				Date:    time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC),
				Message: "Use <b> & \"quotes\" in 'msg'\n\nbody that must not appear",
			},
		}}

		m := string(Render(models.Behind, comparison, testFork()))

		assert.Contains(t, m, "&lt;a href=&quot;https://github.com/alice/widget/commit/abcdef0&quot;&gt;abcdef0&lt;/a&gt;")
		assert.Contains(t, m, " 2023-12-31 - - Use &lt;b&gt; &amp; &quot;quotes&quot; in &apos;msg&apos;")
		assert.NotContains(t, m, "body that must not appear")
		assert.NotContains(t, m, "abcdef01")
	})

	t.Run("should truncate the message to 100 characters", func(t *testing.T) {
		comparison := commits(1)
		comparison.Commits[0].Message = strings.Repeat("x", 150)

		m := string(Render(models.Ahead, comparison, testFork()))

		assert.Contains(t, m, strings.Repeat("x", 100)+"</pre>")
		assert.NotContains(t, m, strings.Repeat("x", 101))
	})

	t.Run("should keep commits in the order received", func(t *testing.T) {
		comparison := &models.Comparison{Commits: []models.CommitSummary{
			{SHA: "1111111aaaa", Message: "first"},
			{SHA: "2222222bbbb", Message: "second"},
		}}

		m := string(Render(models.Ahead, comparison, testFork()))

		require.Contains(t, m, "first")
		assert.Less(t, strings.Index(m, "first"), strings.Index(m, "second"))
	})
}

func TestMarkerOrdering(t *testing.T) {
	fork := testFork()
	markers := []string{
		string(Render(models.Ahead, commits(42), fork)),
		string(Render(models.Ahead, commits(0), fork)),
		string(Render(models.Ahead, commits(3), fork)),
	}

	sort.Strings(markers)

	got := []int{
		models.DivergenceMarker(markers[0]).Count(),
		models.DivergenceMarker(markers[1]).Count(),
		models.DivergenceMarker(markers[2]).Count(),
	}
	assert.Equal(t, []int{0, 3, 42}, got)
	assert.Less(t, Render(models.Ahead, commits(3), fork).SortKey(), Render(models.Ahead, commits(42), fork).SortKey())
}

func TestSentinels(t *testing.T) {
	assert.Equal(t, "No common history", NoCommonHistory().Label())
	assert.Equal(t, "0000", NoCommonHistory().SortKey())
	assert.NotEqual(t, Zero(), NoCommonHistory())
}
