package googlejobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyMatch(n string, source string) string {
	return `["https://www.google.com/url?q=site` + n + `&google_jobs_apply=1","","` + source + `"`
}

func TestURLExtractorSingleGroup(t *testing.T) {
	html := "prefix" + applyMatch("1", "LinkedIn") + "mid" + applyMatch("2", "Indeed") + "suffix"

	groups := NewURLExtractor(1000).Extract(html)

	require.Len(t, groups, 1)
	require.Len(t, groups[0], 2)
	assert.Equal(t, "LinkedIn", groups[0][0].Source)
	assert.Equal(t, "Indeed", groups[0][1].Source)
	assert.Contains(t, groups[0][0].URL, "google_jobs_apply")
}

func TestURLExtractorSplitsGroupsByGap(t *testing.T) {
	// Two matches close together, a >1000 char gap, then two more
	html := applyMatch("1", "A") + strings.Repeat("x", 20) + applyMatch("2", "B") +
		strings.Repeat("y", 1500) +
		applyMatch("3", "C") + strings.Repeat("z", 20) + applyMatch("4", "D")

	groups := NewURLExtractor(1000).Extract(html)

	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
	assert.Equal(t, "A", groups[0][0].Source)
	assert.Equal(t, "C", groups[1][0].Source)
}

func TestURLExtractorDeEscapesURLs(t *testing.T) {
	html := `["https://www.google.com/url?q\u003dabc\u0026google_jobs_apply=1&amp;x=2","","Company Website"`

	groups := NewURLExtractor(1000).Extract(html)

	require.Len(t, groups, 1)
	require.Len(t, groups[0], 1)
	assert.Equal(t, "https://www.google.com/url?q=abc&google_jobs_apply=1&x=2", groups[0][0].URL)
	assert.Equal(t, "Company Website", groups[0][0].Source)
}

func TestURLExtractorNoMatches(t *testing.T) {
	assert.Empty(t, NewURLExtractor(1000).Extract("<html><body>nothing here</body></html>"))
}
