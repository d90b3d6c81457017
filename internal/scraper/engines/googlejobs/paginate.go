package googlejobs

import (
	"context"
	"time"

	"jobspy-service/internal/logging/types"
	"jobspy-service/pkg/models"
)

// PageSession is the rendering backend boundary. One session is bound to
// one proxy identity and lives for one scrape attempt.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	VisibleText(ctx context.Context) (string, error)
	Scroll(ctx context.Context) error
	WaitSettled(ctx context.Context, timeout time.Duration) error
	Close() error
}

// PaginatorConfig bounds the scroll loop.
type PaginatorConfig struct {
	MaxScrollRounds int
	StallThreshold  int
	SettleDelay     time.Duration
}

// Paginator drives the scroll/extract/merge loop over a live session.
// Each round snapshots the page, extracts candidates and URL groups,
// matches them, and merges into the running unique set. The loop stops
// when enough jobs are collected, the scroll budget runs out, or the
// page stops yielding new records.
type Paginator struct {
	records *RecordExtractor
	urls    *URLExtractor
	matcher Matcher
	cfg     PaginatorConfig
	logger  types.Logger
}

// NewPaginator creates a paginator over the given extractors and matcher.
func NewPaginator(records *RecordExtractor, urls *URLExtractor, matcher Matcher, cfg PaginatorConfig, logger types.Logger) *Paginator {
	if cfg.MaxScrollRounds <= 0 {
		cfg.MaxScrollRounds = 10
	}
	if cfg.StallThreshold <= 0 {
		cfg.StallThreshold = 3
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 1500 * time.Millisecond
	}
	return &Paginator{
		records: records,
		urls:    urls,
		matcher: matcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Collect runs the pagination loop and returns up to maxJobs unique
// records in discovery order.
func (p *Paginator) Collect(ctx context.Context, session PageSession, query, location string, maxJobs int) ([]models.JobRecord, error) {
	collector := NewCollector()
	scrollRounds := 0
	stallRounds := 0

	for {
		if err := ctx.Err(); err != nil {
			return collector.Records(maxJobs), err
		}

		html, err := session.HTML(ctx)
		if err != nil {
			return collector.Records(maxJobs), err
		}
		text, err := session.VisibleText(ctx)
		if err != nil {
			return collector.Records(maxJobs), err
		}

		urlGroups := p.urls.Extract(html)
		candidates := p.records.Extract(text, location)
		matched := p.matcher.Match(candidates, urlGroups, query)

		added := collector.Merge(matched)
		p.logger.Debug("Pagination round complete", map[string]interface{}{
			"round":      scrollRounds,
			"candidates": len(candidates),
			"url_groups": len(urlGroups),
			"added":      added,
			"total":      collector.Len(),
		})

		if added == 0 {
			stallRounds++
		} else {
			stallRounds = 0
		}

		// Termination is decided before the next scroll: a round that
		// already met the goal must not touch the page again.
		if collector.Len() >= maxJobs ||
			stallRounds >= p.cfg.StallThreshold ||
			scrollRounds >= p.cfg.MaxScrollRounds {
			break
		}

		if err := session.Scroll(ctx); err != nil {
			return collector.Records(maxJobs), err
		}
		if err := session.WaitSettled(ctx, p.cfg.SettleDelay); err != nil {
			return collector.Records(maxJobs), err
		}
		scrollRounds++
	}

	return collector.Records(maxJobs), nil
}
