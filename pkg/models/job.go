package models

import "strings"

// SourceGoogleJobs is the source label attached to every record produced
// by the Google Jobs engine.
const SourceGoogleJobs = "google_jobs"

// ApplyURL is a single application destination extracted for a job listing.
type ApplyURL struct {
	URL    string `json:"url"`
	Source string `json:"source"` // board name or normalized domain, e.g. "LinkedIn"
}

// JobRecord represents a structured job posting extracted from the rendered
// Google Jobs results page.
type JobRecord struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Description *string    `json:"description"`
	ApplyURLs   []ApplyURL `json:"apply_urls"`
	SearchQuery string     `json:"search_query"`
	PostedDate  *string    `json:"posted_date"`
	Source      string     `json:"source"`
}

// DedupKey returns the identity key used for deduplication across
// pagination rounds: lowercased title and company.
func (j JobRecord) DedupKey() string {
	return strings.ToLower(j.Title) + "\x00" + strings.ToLower(j.Company)
}

// BoardJob is one row of the tabular result returned by the external
// job-board scraping service. Absent or NaN numeric fields are normalized
// to null before this struct is populated.
type BoardJob struct {
	ID          *string  `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	IsRemote    bool     `json:"is_remote"`
	MinAmount   *float64 `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	Currency    *string  `json:"currency"`
	JobURL      *string  `json:"job_url"`
	DatePosted  *string  `json:"date_posted"`
	Site        *string  `json:"site"`
}
