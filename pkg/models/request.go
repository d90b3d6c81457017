package models

// ScrapeRequest is the payload for the job-board passthrough endpoint.
// The shape mirrors the external scraping service's call contract.
type ScrapeRequest struct {
	SearchTerm    string   `json:"search_term" validate:"required"`
	Location      string   `json:"location"`
	SiteNames     []string `json:"site_name"`
	IsRemote      bool     `json:"is_remote"`
	ResultsWanted int      `json:"results_wanted" validate:"omitempty,min=1,max=1000"`
	HoursOld      *int     `json:"hours_old" validate:"omitempty,min=1"`
	CountryIndeed string   `json:"country_indeed"`
}

// GoogleScrapeRequest is the payload for the Google Jobs engine.
type GoogleScrapeRequest struct {
	Query      string   `json:"query" validate:"required"`
	Location   string   `json:"location" validate:"required"`
	MaxJobs    int      `json:"max_jobs" validate:"omitempty,min=1,max=500"`
	MaxRetries int      `json:"max_retries" validate:"omitempty,min=1,max=10"`
	Countries  []string `json:"countries" validate:"omitempty,dive,len=2"`
}

// BulkScrapeRequest is the payload for the bulk query-variation scrape.
type BulkScrapeRequest struct {
	BaseQuery  string `json:"base_query" validate:"required"`
	Location   string `json:"location" validate:"required"`
	TargetJobs int    `json:"target_jobs" validate:"omitempty,min=1,max=5000"`
	Export     bool   `json:"export"`
}
