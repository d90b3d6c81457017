package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
	"jobspy-service/internal/proxy"
	"jobspy-service/pkg/models"
)

// Client calls the external job-board scraping service. That service
// fans a search out to the individual boards (Indeed, LinkedIn, ...)
// and returns a tabular result.
type Client struct {
	http   *resty.Client
	pool   *proxy.Pool
	logger types.Logger
}

// scrapeResult is the wire shape of the collaborator response.
type scrapeResult struct {
	Jobs  []models.BoardJob `json:"jobs"`
	Count int               `json:"count"`
}

// scrapePayload is the outgoing request body. The proxy list rotates per
// call so consecutive board searches egress through different IPs.
type scrapePayload struct {
	*models.ScrapeRequest
	Proxies []string `json:"proxies,omitempty"`
}

// NewClient creates a client for the configured collaborator endpoint.
// pool may be nil; searches then run through the collaborator's own
// egress.
func NewClient(cfg *config.Config, pool *proxy.Pool) *Client {
	http := resty.New().
		SetBaseURL(cfg.JobSpy.BaseURL).
		SetTimeout(cfg.JobSpy.Timeout).
		SetRetryCount(cfg.JobSpy.MaxRetries).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   http,
		pool:   pool,
		logger: logging.GetGlobalLogger().WithField("component", "jobspy_client"),
	}
}

// Scrape runs a board search through the collaborator and returns the
// normalized rows.
func (c *Client) Scrape(ctx context.Context, req *models.ScrapeRequest) ([]models.BoardJob, error) {
	payload := scrapePayload{ScrapeRequest: req}
	if c.pool != nil && c.pool.Size() > 0 {
		if p, err := c.pool.Next(); err == nil {
			payload.Proxies = []string{p}
			c.logger.Debug("Attached rotated proxy", map[string]interface{}{
				"proxy": proxy.Mask(p),
			})
		}
	}

	c.logger.Info("Dispatching board scrape", map[string]interface{}{
		"search_term": req.SearchTerm,
		"sites":       req.SiteNames,
	})

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/scrape")
	if err != nil {
		return nil, fmt.Errorf("board scrape request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("board scrape returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result scrapeResult
	if err := json.Unmarshal(sanitizeNaN(resp.Body()), &result); err != nil {
		return nil, fmt.Errorf("failed to decode board scrape response: %w", err)
	}

	c.logger.Info("Board scrape complete", map[string]interface{}{
		"search_term": req.SearchTerm,
		"count":       result.Count,
	})

	return result.Jobs, nil
}

// Health checks the collaborator's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("board scrape service unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("board scrape service unhealthy: status %d", resp.StatusCode())
	}
	return nil
}

// sanitizeNaN rewrites bare NaN tokens to null. Pandas-backed services
// leak NaN into numeric columns, which is not valid JSON.
func sanitizeNaN(body []byte) []byte {
	body = bytes.ReplaceAll(body, []byte(": NaN"), []byte(": null"))
	return bytes.ReplaceAll(body, []byte(":NaN"), []byte(":null"))
}
