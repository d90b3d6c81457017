package googlejobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/config"
	"jobspy-service/internal/proxy"
)

func TestBackoffGrowth(t *testing.T) {
	for attempt := 0; attempt < 5; attempt++ {
		d := Backoff(attempt)
		lower := time.Duration(1<<uint(attempt)) * time.Second
		upper := lower + 4*time.Second

		assert.GreaterOrEqual(t, d, lower+time.Second, "attempt %d", attempt)
		assert.LessOrEqual(t, d, upper, "attempt %d", attempt)
	}
}

type fakeFactory struct {
	session  *fakeSession
	sessions int
}

func (f *fakeFactory) NewSession(ctx context.Context, proxySession *proxy.Session) (PageSession, error) {
	f.sessions++
	return f.session, nil
}

func scraperTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scraper.MaxRetries = 2
	cfg.Scraper.Google.MaxJobs = 10
	cfg.Scraper.Google.MinContentBytes = 10
	cfg.Scraper.Google.BlockSignatures = []string{"unusual traffic", "captcha"}
	cfg.Scraper.Google.MaxScrollRounds = 2
	cfg.Scraper.Google.StallThreshold = 2
	cfg.Scraper.Google.ScrollSettle = time.Millisecond
	cfg.Scraper.Google.URLGroupGap = 1000
	cfg.Scraper.Google.InitialWait = time.Millisecond
	cfg.Scraper.Google.NavigateTimeout = time.Second
	return cfg
}

func TestScrapeReturnsJobsOnFirstGoodAttempt(t *testing.T) {
	html, text := pageWithJobs(2)
	factory := &fakeFactory{session: &fakeSession{html: html, text: text}}

	s := NewScraper(scraperTestConfig(), nil, factory, nil)
	jobs := s.Scrape(context.Background(), "backend engineer", "Toronto", 10, 2, nil)

	require.Len(t, jobs, 2)
	assert.Equal(t, 1, factory.sessions)
	for _, job := range jobs {
		assert.NotEmpty(t, job.ApplyURLs)
	}
}

func TestScrapeReturnsEmptyAfterExhaustion(t *testing.T) {
	// Every attempt sees a blocked page; exhaustion reports an empty
	// result instead of an error.
	factory := &fakeFactory{session: &fakeSession{
		html: "our systems have detected unusual traffic",
		text: "",
	}}

	s := NewScraper(scraperTestConfig(), nil, factory, nil)
	jobs := s.Scrape(context.Background(), "backend engineer", "Toronto", 10, 1, nil)

	assert.Empty(t, jobs)
	assert.Equal(t, 1, factory.sessions)
}

func TestScrapeRotatesSessionPerAttempt(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{
		html: "please solve this captcha",
		text: "",
	}}

	s := NewScraper(scraperTestConfig(), nil, factory, nil)
	s.Scrape(context.Background(), "backend engineer", "Toronto", 10, 2, nil)

	assert.Equal(t, 2, factory.sessions)
}
