package scraper

import (
	"context"

	"jobspy-service/pkg/models"
)

// Engine defines the interface for all job search engines
type Engine interface {
	// Search runs a job search and returns the records found. An empty
	// slice means the search produced nothing, whether because no jobs
	// matched or because every attempt failed.
	Search(ctx context.Context, req *models.GoogleScrapeRequest) []models.JobRecord

	// Name returns the engine identifier used for rate limiting and stats
	Name() string
}

// EngineFactory creates engines based on engine type
type EngineFactory interface {
	// CreateEngine creates a new engine instance for the given type
	CreateEngine(engine string) (Engine, error)

	// GetSupportedEngines returns a list of supported engine types
	GetSupportedEngines() []string
}
