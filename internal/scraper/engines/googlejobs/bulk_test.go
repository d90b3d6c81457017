package googlejobs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/logging"
	"jobspy-service/pkg/models"
)

func TestQueryVariationsDedupPreservesOrder(t *testing.T) {
	variations := QueryVariations("full stack software engineer")

	require.NotEmpty(t, variations)
	assert.Equal(t, "full stack software engineer", variations[0])

	seen := make(map[string]struct{})
	for _, q := range variations {
		key := strings.ToLower(q)
		_, dup := seen[key]
		assert.False(t, dup, "duplicate variation %q", q)
		seen[key] = struct{}{}
	}

	assert.Contains(t, variations, "senior full stack software engineer")
	assert.Contains(t, variations, "devops engineer")
}

// fakeQueryScraper returns a fixed batch per query and records the order
// queries were issued in.
type fakeQueryScraper struct {
	batches map[string][]models.JobRecord
	queries []string
}

func (f *fakeQueryScraper) Scrape(ctx context.Context, query, location string, maxJobs, maxRetries int, countries []string) []models.JobRecord {
	f.queries = append(f.queries, query)
	return f.batches[query]
}

func record(title, company string) models.JobRecord {
	return models.JobRecord{
		Title:     title,
		Company:   company,
		ApplyURLs: []models.ApplyURL{{URL: "https://example.com/apply", Source: "LinkedIn"}},
		Source:    models.SourceGoogleJobs,
	}
}

func TestBulkRunMergesAcrossQueries(t *testing.T) {
	base := "full stack software engineer"
	scraper := &fakeQueryScraper{batches: map[string][]models.JobRecord{
		base: {
			record("Senior Backend Engineer", "Acme Corp"),
			record("Data Engineer", "Initech"),
		},
		// Overlaps with the first batch on the dedup key
		"senior " + base: {
			record("senior backend engineer", "ACME CORP"),
			record("Platform Engineer", "Globex"),
		},
	}}

	bulk := &BulkScraper{scraper: scraper, logger: logging.GetGlobalLogger()}
	jobs := bulk.Run(context.Background(), base, "Toronto", 3)

	require.Len(t, jobs, 3)
	assert.Equal(t, "Senior Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Data Engineer", jobs[1].Title)
	assert.Equal(t, "Platform Engineer", jobs[2].Title)
}

func TestBulkRunStopsAtTarget(t *testing.T) {
	base := "full stack software engineer"
	scraper := &fakeQueryScraper{batches: map[string][]models.JobRecord{
		base: {
			record("Senior Backend Engineer", "Acme Corp"),
			record("Data Engineer", "Initech"),
		},
	}}

	bulk := &BulkScraper{scraper: scraper, logger: logging.GetGlobalLogger()}
	jobs := bulk.Run(context.Background(), base, "Toronto", 1)

	assert.Len(t, jobs, 1)
	// The first query already met the target; no further variation runs.
	assert.Equal(t, []string{base}, scraper.queries)
}

func TestBulkRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := &fakeQueryScraper{batches: map[string][]models.JobRecord{}}
	bulk := &BulkScraper{scraper: scraper, logger: logging.GetGlobalLogger()}
	jobs := bulk.Run(ctx, "backend engineer", "Toronto", 10)

	assert.Empty(t, jobs)
	assert.Empty(t, scraper.queries)
}
