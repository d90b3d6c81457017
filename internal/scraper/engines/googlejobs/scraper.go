package googlejobs

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
	"jobspy-service/internal/proxy"
	"jobspy-service/pkg/models"
)

const searchURLFormat = "https://www.google.com/search?q=%s&ibp=htl;jobs&sa=X&hl=en"

// SessionFactory opens a rendering session bound to a proxy identity.
// A nil proxy session means direct, unproxied browsing.
type SessionFactory interface {
	NewSession(ctx context.Context, proxySession *proxy.Session) (PageSession, error)
}

// CaptchaSolver solves a reCAPTCHA challenge and returns the response
// token. Optional; a nil solver means blocked pages always fail the
// attempt.
type CaptchaSolver interface {
	SolveRecaptcha(ctx context.Context, siteURL, siteKey string) (string, error)
}

// Scraper runs bounded-retry scrapes of the jobs results page. Each
// attempt gets a fresh proxy session, so a blocked attempt rotates to a
// new egress IP on the next try.
type Scraper struct {
	provider  *proxy.Provider
	sessions  SessionFactory
	detector  *Detector
	paginator *Paginator
	solver    CaptchaSolver
	cfg       *config.Config
	logger    types.Logger
}

// NewScraper wires the scrape pipeline. provider and solver may be nil:
// no provider means unproxied attempts, no solver means no captcha
// recovery.
func NewScraper(cfg *config.Config, provider *proxy.Provider, sessions SessionFactory, solver CaptchaSolver) *Scraper {
	google := cfg.Scraper.Google

	records := NewRecordExtractor(nil, nil, google.MaxJobs)
	urls := NewURLExtractor(google.URLGroupGap)
	logger := logging.GetGlobalLogger()

	return &Scraper{
		provider: provider,
		sessions: sessions,
		detector: NewDetector(google.BlockSignatures, google.MinContentBytes),
		paginator: NewPaginator(records, urls, NewPositionalMatcher(), PaginatorConfig{
			MaxScrollRounds: google.MaxScrollRounds,
			StallThreshold:  google.StallThreshold,
			SettleDelay:     google.ScrollSettle,
		}, logger),
		solver: solver,
		cfg:    cfg,
		logger: logger,
	}
}

// Scrape runs up to maxRetries attempts and returns the first non-empty
// result. Exhaustion returns an empty slice, never an error: the caller
// cannot distinguish "no jobs exist" from "all attempts failed".
func (s *Scraper) Scrape(ctx context.Context, query, location string, maxJobs, maxRetries int, countries []string) []models.JobRecord {
	if maxJobs <= 0 {
		maxJobs = s.cfg.Scraper.Google.MaxJobs
	}
	if maxRetries <= 0 {
		maxRetries = s.cfg.Scraper.MaxRetries
	}

	country := "us"
	if len(countries) > 0 {
		country = countries[0]
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		jobs, err := s.attempt(ctx, query, location, maxJobs, country)
		if err == nil && len(jobs) > 0 {
			return jobs
		}

		fields := map[string]interface{}{
			"attempt":     attempt + 1,
			"max_retries": maxRetries,
			"query":       query,
		}
		if err != nil {
			fields["error"] = err.Error()
			fields["recoverable"] = IsRecoverable(err)
		}
		s.logger.Warn("Scrape attempt yielded no jobs, retrying", fields)

		if attempt == maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			s.logger.Warn("Scrape cancelled", map[string]interface{}{"query": query})
			return []models.JobRecord{}
		case <-time.After(Backoff(attempt)):
		}
	}

	s.logger.Error("Failed to scrape jobs after all attempts", map[string]interface{}{
		"query":       query,
		"location":    location,
		"max_retries": maxRetries,
	})
	return []models.JobRecord{}
}

// attempt runs one full pagination pass through a fresh proxy session.
func (s *Scraper) attempt(ctx context.Context, query, location string, maxJobs int, country string) ([]models.JobRecord, error) {
	var proxySession *proxy.Session
	if s.provider != nil {
		ps, err := s.provider.Next(country)
		if err != nil {
			return nil, err
		}
		proxySession = ps
		s.logger.Info("Starting scrape attempt", map[string]interface{}{
			"query":   query,
			"session": ps.ID,
		})
	}

	session, err := s.sessions.NewSession(ctx, proxySession)
	if err != nil {
		if proxySession != nil {
			return nil, &ProxyConnectionError{Session: proxySession.Masked(), Err: err}
		}
		return nil, err
	}
	defer session.Close()

	searchURL := fmt.Sprintf(searchURLFormat, url.QueryEscape(query+" "+location))

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.Scraper.Google.NavigateTimeout)
	defer cancel()
	if err := session.Navigate(navCtx, searchURL); err != nil {
		return nil, err
	}

	// Human-like pause before touching the page
	if wait := s.cfg.Scraper.Google.InitialWait; wait > 0 {
		wait += time.Duration(rand.Int63n(int64(wait/2) + 1))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.detector.Classify(html); err != nil {
		if recovered := s.tryCaptchaRecovery(ctx, session, searchURL, html, err); recovered != nil {
			err = recovered
		}
		if err != nil {
			return nil, err
		}
	}

	return s.paginator.Collect(ctx, session, query, location, maxJobs)
}

// tryCaptchaRecovery attempts a one-shot solve when a blocked page
// carries a reCAPTCHA widget. Returns nil when the page became usable,
// otherwise the error to surface for this attempt.
func (s *Scraper) tryCaptchaRecovery(ctx context.Context, session PageSession, siteURL, html string, cause error) error {
	if s.solver == nil {
		return cause
	}

	var blocked *BlockedError
	if !errors.As(cause, &blocked) {
		return cause
	}

	siteKey := ExtractRecaptchaSitekey(html)
	if siteKey == "" {
		return cause
	}

	evaluator, ok := session.(interface {
		Eval(ctx context.Context, script string) error
	})
	if !ok {
		return cause
	}

	token, err := s.solver.SolveRecaptcha(ctx, siteURL, siteKey)
	if err != nil {
		s.logger.Warn("Captcha solve failed", map[string]interface{}{"error": err.Error()})
		return cause
	}

	script := fmt.Sprintf(`() => {
		const el = document.getElementById('g-recaptcha-response');
		if (el) el.innerHTML = %q;
		document.querySelectorAll('[name="g-recaptcha-response"]').forEach(e => { e.value = %q; });
		const form = document.querySelector('form');
		if (form) form.submit();
	}`, token, token)

	if err := evaluator.Eval(ctx, script); err != nil {
		return cause
	}

	if err := session.WaitSettled(ctx, 5*time.Second); err != nil {
		return cause
	}

	refreshed, err := session.HTML(ctx)
	if err != nil {
		return cause
	}
	if _, err := s.detector.Classify(refreshed); err != nil {
		return err
	}

	s.logger.Info("Captcha challenge cleared", map[string]interface{}{"site_key": siteKey})
	return nil
}

// Backoff returns the sleep before the next attempt: exponential in the
// attempt number with 1-3s of jitter to avoid synchronized retry storms.
func Backoff(attempt int) time.Duration {
	base := float64(int(1) << uint(attempt))
	jitter := 1 + rand.Float64()*2
	return time.Duration((base + jitter) * float64(time.Second))
}
