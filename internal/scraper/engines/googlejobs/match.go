package googlejobs

import "jobspy-service/pkg/models"

// Matcher aligns text-extracted candidates with markup-extracted URL
// groups. It is an interface so the positional strategy can be swapped
// for a content-verified one without touching the pipeline.
type Matcher interface {
	Match(candidates []Candidate, urlGroups [][]models.ApplyURL, query string) []models.JobRecord
}

// PositionalMatcher zips candidates and URL groups by index. It assumes
// text order and markup order agree on the rendered page; no content
// cross-check is performed. Candidates past the last group, or whose
// group is empty, are dropped so every emitted record carries at least
// one apply URL.
type PositionalMatcher struct{}

// NewPositionalMatcher creates the default index-zip matcher.
func NewPositionalMatcher() *PositionalMatcher {
	return &PositionalMatcher{}
}

func (m *PositionalMatcher) Match(candidates []Candidate, urlGroups [][]models.ApplyURL, query string) []models.JobRecord {
	var records []models.JobRecord

	for i, c := range candidates {
		if i >= len(urlGroups) {
			break
		}
		if len(urlGroups[i]) == 0 {
			continue
		}

		records = append(records, models.JobRecord{
			Title:       c.Title,
			Company:     c.Company,
			Location:    c.Location,
			ApplyURLs:   urlGroups[i],
			SearchQuery: query,
			Source:      models.SourceGoogleJobs,
		})
	}

	return records
}
