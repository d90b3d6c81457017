package googlejobs

import (
	"regexp"
	"strings"

	"jobspy-service/pkg/models"
)

// applyURLPattern matches the client-side redirect triplet the results
// page embeds per apply link: the redirect URL, an ignored middle field,
// and a quoted source label.
var applyURLPattern = regexp.MustCompile(`\["(https://[^"]+google_jobs_apply[^"]+)","?([^",]*)","([^"]+)"`)

var urlUnescaper = strings.NewReplacer(
	`\u003d`, "=",
	`\u0026`, "&",
	"&amp;", "&",
)

// URLExtractor scans raw markup for apply-URL groups. Matches closer than
// the gap threshold belong to the same listing; a larger gap starts a new
// group.
type URLExtractor struct {
	groupGap int
}

// NewURLExtractor creates an extractor with the given gap threshold in
// characters. A zero or negative gap falls back to 1000.
func NewURLExtractor(groupGap int) *URLExtractor {
	if groupGap <= 0 {
		groupGap = 1000
	}
	return &URLExtractor{groupGap: groupGap}
}

// Extract returns ordered groups of apply URLs, one group per listing.
// URLs are de-escaped before storage.
func (e *URLExtractor) Extract(html string) [][]models.ApplyURL {
	var groups [][]models.ApplyURL
	var current []models.ApplyURL
	lastEnd := 0

	for _, idx := range applyURLPattern.FindAllStringSubmatchIndex(html, -1) {
		start := idx[0]

		if lastEnd > 0 && start-lastEnd > e.groupGap {
			if len(current) > 0 {
				groups = append(groups, current)
			}
			current = nil
		}

		url := urlUnescaper.Replace(html[idx[2]:idx[3]])
		source := html[idx[6]:idx[7]]

		current = append(current, models.ApplyURL{URL: url, Source: source})
		lastEnd = idx[1]
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}
