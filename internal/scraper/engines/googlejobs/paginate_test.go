package googlejobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/logging"
)

// fakeSession serves canned page snapshots and counts scrolls.
type fakeSession struct {
	html    string
	text    string
	scrolls int
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error { return nil }
func (f *fakeSession) HTML(ctx context.Context) (string, error)       { return f.html, nil }
func (f *fakeSession) VisibleText(ctx context.Context) (string, error) {
	return f.text, nil
}
func (f *fakeSession) Scroll(ctx context.Context) error { f.scrolls++; return nil }
func (f *fakeSession) WaitSettled(ctx context.Context, timeout time.Duration) error {
	return nil
}
func (f *fakeSession) Close() error { return nil }

func pageWithJobs(n int) (html, text string) {
	var htmlParts, textLines []string
	for i := 0; i < n; i++ {
		suffix := string(rune('a' + i))
		htmlParts = append(htmlParts, applyMatch(suffix, "LinkedIn"))
		textLines = append(textLines,
			"Senior Backend Engineer "+suffix,
			"Acme Corp "+suffix,
			"Toronto, ON",
		)
	}
	return strings.Join(htmlParts, strings.Repeat("x", 1500)), strings.Join(textLines, "\n") + "\nfiller"
}

func newTestPaginator(cfg PaginatorConfig) *Paginator {
	return NewPaginator(
		NewRecordExtractor(nil, nil, 0),
		NewURLExtractor(1000),
		NewPositionalMatcher(),
		cfg,
		logging.GetGlobalLogger(),
	)
}

func TestPaginatorStallTermination(t *testing.T) {
	html, text := pageWithJobs(2)
	session := &fakeSession{html: html, text: text}

	p := newTestPaginator(PaginatorConfig{
		MaxScrollRounds: 1000,
		StallThreshold:  3,
		SettleDelay:     time.Millisecond,
	})

	records, err := p.Collect(context.Background(), session, "engineer", "Toronto", 50)
	require.NoError(t, err)

	// Round one adds two records, every later round adds zero; the loop
	// must stop after stallThreshold stalled rounds, not after 1000.
	assert.Len(t, records, 2)
	assert.LessOrEqual(t, session.scrolls, 4)
}

func TestPaginatorStopsAtMaxJobs(t *testing.T) {
	html, text := pageWithJobs(5)
	session := &fakeSession{html: html, text: text}

	p := newTestPaginator(PaginatorConfig{
		MaxScrollRounds: 10,
		StallThreshold:  3,
		SettleDelay:     time.Millisecond,
	})

	records, err := p.Collect(context.Background(), session, "engineer", "Toronto", 3)
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Zero(t, session.scrolls)
}

func TestPaginatorScrollBudget(t *testing.T) {
	session := &fakeSession{html: "<html></html>", text: "nothing"}

	p := newTestPaginator(PaginatorConfig{
		MaxScrollRounds: 2,
		StallThreshold:  100,
		SettleDelay:     time.Millisecond,
	})

	records, err := p.Collect(context.Background(), session, "engineer", "Toronto", 50)
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 2, session.scrolls)
}

func TestPaginatorHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{html: "<html></html>", text: "nothing"}
	p := newTestPaginator(PaginatorConfig{})

	_, err := p.Collect(ctx, session, "engineer", "Toronto", 50)
	assert.ErrorIs(t, err, context.Canceled)
}
