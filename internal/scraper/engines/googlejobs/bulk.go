package googlejobs

import (
	"context"
	"strings"
	"time"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
	"jobspy-service/pkg/models"
)

// queryReplacements rewrite the base query into common phrasing variants
// of the same role.
var queryReplacements = [][2]string{
	{"full stack", "fullstack"},
	{"full stack", "full-stack"},
	{"software engineer", "software developer"},
	{"software engineer", "programmer"},
	{"full stack software engineer", "full stack developer"},
	{"full stack software engineer", "web developer"},
	{"full stack software engineer", "frontend developer"},
	{"full stack software engineer", "backend developer"},
}

// relatedRoles broaden a bulk run beyond the literal base query. The
// dedup key keeps overlap between variations harmless.
var relatedRoles = []string{
	"typescript developer", "javascript developer", "react developer",
	"node.js developer", "python developer", "java developer",
	"golang developer", "cloud engineer", "devops engineer",
	"site reliability engineer", "platform engineer",
	"software architect", "data engineer", "machine learning engineer",
	"qa engineer", "mobile developer", "api developer",
}

var seniorityPrefixes = []string{"", "senior", "junior", "lead", "staff", "principal"}

var coreRoles = []string{
	"software engineer", "software developer",
	"full stack developer", "web developer",
}

// QueryVariations expands a base query into search variations: phrasing
// rewrites, a suffix/prefix spread, related roles, and seniority crosses
// over the core roles. Duplicates are removed preserving first order.
func QueryVariations(baseQuery string) []string {
	base := strings.TrimSpace(baseQuery)

	variations := []string{base}
	for _, r := range queryReplacements {
		variations = append(variations, strings.ReplaceAll(base, r[0], r[1]))
	}
	variations = append(variations,
		"senior "+base,
		"junior "+base,
		base+" remote",
		"staff "+base,
		"lead "+base,
		"principal "+base,
	)
	variations = append(variations, relatedRoles...)
	for _, prefix := range seniorityPrefixes {
		for _, role := range coreRoles {
			variations = append(variations, strings.TrimSpace(prefix+" "+role))
		}
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, q := range variations {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, q)
	}
	return unique
}

// QueryScraper runs one bounded-retry scrape for a single query.
type QueryScraper interface {
	Scrape(ctx context.Context, query, location string, maxJobs, maxRetries int, countries []string) []models.JobRecord
}

// BulkScraper runs one scrape per query variation sequentially, merging
// results into a single deduplicated set. Variations never overlap in
// time; a politeness delay separates consecutive searches.
type BulkScraper struct {
	scraper QueryScraper
	delay   time.Duration
	logger  types.Logger
}

// NewBulkScraper creates a bulk runner over the given single-query
// scraper.
func NewBulkScraper(scraper QueryScraper, cfg *config.Config) *BulkScraper {
	return &BulkScraper{
		scraper: scraper,
		delay:   cfg.Scraper.Google.PolitenessDelay,
		logger:  logging.GetGlobalLogger().WithField("component", "bulk_scraper"),
	}
}

// Run scrapes every variation of baseQuery until targetJobs unique
// records are collected or the variations run out. Each variation gets a
// per-query budget so early variations cannot starve later ones.
func (b *BulkScraper) Run(ctx context.Context, baseQuery, location string, targetJobs int) []models.JobRecord {
	if targetJobs <= 0 {
		targetJobs = 1000
	}

	variations := QueryVariations(baseQuery)
	perQuery := targetJobs / len(variations)
	if perQuery < 50 {
		perQuery = 50
	}

	b.logger.Info("Starting bulk scrape", map[string]interface{}{
		"base_query": baseQuery,
		"location":   location,
		"variations": len(variations),
		"per_query":  perQuery,
		"target":     targetJobs,
	})

	collector := NewCollector()
	for i, query := range variations {
		if collector.Len() >= targetJobs {
			break
		}
		if ctx.Err() != nil {
			b.logger.Warn("Bulk scrape cancelled", map[string]interface{}{
				"completed_queries": i,
				"collected":         collector.Len(),
			})
			break
		}

		jobs := b.scraper.Scrape(ctx, query, location, perQuery, 0, nil)
		added := collector.Merge(jobs)

		b.logger.Info("Bulk query complete", map[string]interface{}{
			"query":    query,
			"progress": i + 1,
			"of":       len(variations),
			"found":    len(jobs),
			"added":    added,
			"total":    collector.Len(),
		})

		if i < len(variations)-1 && b.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(b.delay):
			}
		}
	}

	return collector.Records(targetJobs)
}
