package googlejobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTripleFromText(t *testing.T) {
	text := strings.Join([]string{
		"Senior Backend Engineer",
		"Acme Corp",
		"Toronto, ON",
		"Data Analyst",
		"http://example.com",
		"...",
	}, "\n")

	extractor := NewRecordExtractor(nil, nil, 0)
	candidates := extractor.Extract(text, "Toronto")

	// The second window dies on its company line being a URL
	require.Len(t, candidates, 1)
	assert.Equal(t, "Senior Backend Engineer", candidates[0].Title)
	assert.Equal(t, "Acme Corp", candidates[0].Company)
	assert.Equal(t, "Toronto, ON", candidates[0].Location)
}

func TestExtractRejectsTitlesByLength(t *testing.T) {
	extractor := NewRecordExtractor(nil, nil, 0)

	short := "Engineer\nAcme Corp\nToronto\nfiller"
	assert.Empty(t, extractor.Extract(short, "Toronto"))

	long := strings.Repeat("Engineer ", 20) + "\nAcme Corp\nToronto\nfiller"
	assert.Empty(t, extractor.Extract(long, "Toronto"))
}

func TestExtractRejectsSkipPatternTitles(t *testing.T) {
	text := strings.Join([]string{
		"Best Engineer jobs near you",
		"Acme Corp",
		"Toronto, ON",
		"filler",
	}, "\n")

	extractor := NewRecordExtractor(nil, nil, 0)
	assert.Empty(t, extractor.Extract(text, "Toronto"))
}

func TestExtractStripsCompanyDecorations(t *testing.T) {
	text := strings.Join([]string{
		"Staff Software Engineer",
		"via Acme Corp •",
		"Remote • Canada",
		"filler",
	}, "\n")

	extractor := NewRecordExtractor(nil, nil, 0)
	candidates := extractor.Extract(text, "Toronto")

	require.Len(t, candidates, 1)
	assert.Equal(t, "Acme Corp", candidates[0].Company)
	assert.Equal(t, "Remote  Canada", candidates[0].Location)
}

func TestExtractConsumesTripleOnJunkCompany(t *testing.T) {
	// The window is consumed even when the company line is junk, so the
	// two lines after it are swallowed instead of being re-scanned.
	text := strings.Join([]string{
		"Senior DevOps Engineer",
		"Apply to 100+ Engineer roles ...",
		"Lead Platform Engineer",
		"Acme Corp",
		"Toronto, ON",
		"filler",
	}, "\n")

	extractor := NewRecordExtractor(nil, nil, 0)
	assert.Empty(t, extractor.Extract(text, "Toronto"))
}

func TestExtractCandidateCap(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "Senior Backend Engineer II", "Acme Corp", "Toronto, ON")
	}
	text := strings.Join(lines, "\n")

	extractor := NewRecordExtractor(nil, nil, 5)
	assert.Len(t, extractor.Extract(text, "Toronto"), 5)
}
