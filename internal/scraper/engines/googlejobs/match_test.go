package googlejobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/pkg/models"
)

func TestPositionalMatcherAlignment(t *testing.T) {
	candidates := []Candidate{
		{Title: "A", Company: "CoA", Location: "X"},
		{Title: "B", Company: "CoB", Location: "Y"},
		{Title: "C", Company: "CoC", Location: "Z"},
	}
	urlGroups := [][]models.ApplyURL{
		{{URL: "https://u1", Source: "s1"}},
		{},
		{{URL: "https://u3", Source: "s3"}},
	}

	records := NewPositionalMatcher().Match(candidates, urlGroups, "query")

	// B is dropped for its empty group
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "https://u1", records[0].ApplyURLs[0].URL)
	assert.Equal(t, "C", records[1].Title)
	assert.Equal(t, "https://u3", records[1].ApplyURLs[0].URL)
}

func TestPositionalMatcherDropsCandidatesPastGroups(t *testing.T) {
	candidates := []Candidate{
		{Title: "A", Company: "CoA"},
		{Title: "B", Company: "CoB"},
	}
	urlGroups := [][]models.ApplyURL{
		{{URL: "https://u1", Source: "s1"}},
	}

	records := NewPositionalMatcher().Match(candidates, urlGroups, "query")

	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Title)
}

func TestPositionalMatcherEveryRecordHasURLs(t *testing.T) {
	candidates := []Candidate{
		{Title: "A", Company: "CoA"},
		{Title: "B", Company: "CoB"},
		{Title: "C", Company: "CoC"},
	}
	urlGroups := [][]models.ApplyURL{
		{},
		{{URL: "https://u2", Source: "s2"}},
		{},
	}

	records := NewPositionalMatcher().Match(candidates, urlGroups, "query")

	for _, r := range records {
		assert.NotEmpty(t, r.ApplyURLs)
	}
	require.Len(t, records, 1)
	assert.Equal(t, "google_jobs", records[0].Source)
	assert.Equal(t, "query", records[0].SearchQuery)
}
