package scraper

import (
	"context"
	"fmt"

	"jobspy-service/internal/config"
	"jobspy-service/internal/proxy"
	"jobspy-service/internal/scraper/engines/googlejobs"
	"jobspy-service/pkg/models"
)

// DefaultEngineFactory implements EngineFactory
type DefaultEngineFactory struct {
	config   *config.Config
	provider *proxy.Provider
	sessions googlejobs.SessionFactory
	solver   googlejobs.CaptchaSolver
}

// NewEngineFactory creates a new engine factory. provider and solver may
// be nil; the google engine then runs unproxied and without captcha
// recovery.
func NewEngineFactory(cfg *config.Config, provider *proxy.Provider, sessions googlejobs.SessionFactory, solver googlejobs.CaptchaSolver) EngineFactory {
	return &DefaultEngineFactory{
		config:   cfg,
		provider: provider,
		sessions: sessions,
		solver:   solver,
	}
}

// CreateEngine creates a new engine instance for the given type
func (f *DefaultEngineFactory) CreateEngine(engine string) (Engine, error) {
	switch engine {
	case "google", "auto":
		return &googleEngine{
			scraper: googlejobs.NewScraper(f.config, f.provider, f.sessions, f.solver),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported search engine: %s", engine)
	}
}

// GetSupportedEngines returns a list of supported engine types
func (f *DefaultEngineFactory) GetSupportedEngines() []string {
	return []string{"google", "auto"}
}

// googleEngine adapts the Google Jobs scraper to the Engine interface.
type googleEngine struct {
	scraper *googlejobs.Scraper
}

func (e *googleEngine) Search(ctx context.Context, req *models.GoogleScrapeRequest) []models.JobRecord {
	return e.scraper.Scrape(ctx, req.Query, req.Location, req.MaxJobs, req.MaxRetries, req.Countries)
}

func (e *googleEngine) Name() string {
	return models.SourceGoogleJobs
}
