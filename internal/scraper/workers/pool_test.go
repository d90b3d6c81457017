package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/config"
	"jobspy-service/internal/scraper"
	"jobspy-service/pkg/models"
)

type fakeEngine struct {
	name string
	jobs []models.JobRecord
}

func (e *fakeEngine) Search(ctx context.Context, req *models.GoogleScrapeRequest) []models.JobRecord {
	return e.jobs
}

func (e *fakeEngine) Name() string { return e.name }

type fakeFactory struct {
	engine scraper.Engine
	err    error
}

func (f *fakeFactory) CreateEngine(engine string) (scraper.Engine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.engine, nil
}

func (f *fakeFactory) GetSupportedEngines() []string { return []string{"google"} }

func poolTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 10
	cfg.Workers.RateLimit = 600
	cfg.Workers.Timeout = 5 * time.Second
	return cfg
}

func startedPool(t *testing.T, factory scraper.EngineFactory) *WorkerPool {
	t.Helper()

	pool := NewWorkerPool(poolTestConfig(), factory)
	require.NoError(t, pool.Start())
	t.Cleanup(func() {
		_ = pool.Stop()
		pool.rateLimiter.Stop()
	})
	return pool
}

func TestPoolDeliversSearchResults(t *testing.T) {
	factory := &fakeFactory{engine: &fakeEngine{
		name: models.SourceGoogleJobs,
		jobs: []models.JobRecord{{Title: "Software Engineer", Company: "Acme"}},
	}}
	pool := startedPool(t, factory)

	result, err := pool.SubmitJob(context.Background(), "google", &models.GoogleScrapeRequest{
		Query:    "software engineer",
		Location: "Toronto",
	})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, "Software Engineer", result.Jobs[0].Title)
	assert.NoError(t, result.Error)

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.JobsQueued)
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsSuccessful)
}

func TestPoolCountsEmptyResultAsFailure(t *testing.T) {
	factory := &fakeFactory{engine: &fakeEngine{name: models.SourceGoogleJobs}}
	pool := startedPool(t, factory)

	result, err := pool.SubmitJob(context.Background(), "google", &models.GoogleScrapeRequest{
		Query:    "underwater basket weaver",
		Location: "Nowhere",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Jobs)

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.JobsFailed)
	assert.Equal(t, int64(0), stats.JobsSuccessful)
}

func TestPoolRejectsUnknownEngine(t *testing.T) {
	factory := &fakeFactory{err: fmt.Errorf("unsupported search engine: bing")}
	pool := startedPool(t, factory)

	_, err := pool.SubmitJob(context.Background(), "bing", &models.GoogleScrapeRequest{Query: "x"})
	assert.Error(t, err)
}

func TestPoolRejectsWhenStopped(t *testing.T) {
	factory := &fakeFactory{engine: &fakeEngine{name: models.SourceGoogleJobs}}
	pool := NewWorkerPool(poolTestConfig(), factory)
	defer pool.rateLimiter.Stop()

	_, err := pool.SubmitJob(context.Background(), "google", &models.GoogleScrapeRequest{Query: "x"})
	assert.Error(t, err)
}

func TestRateLimiterCircuitOpensAfterFailures(t *testing.T) {
	cfg := poolTestConfig()
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		rl.RecordFailure("google_jobs", fmt.Errorf("blocked"))
	}

	assert.False(t, rl.Allow("google_jobs"))

	stats := rl.GetSourceStats("google_jobs")
	assert.Equal(t, "open", stats["circuit_state"])
}

func TestRateLimiterAllowsHealthySource(t *testing.T) {
	rl := NewRateLimiter(poolTestConfig())
	defer rl.Stop()

	assert.True(t, rl.Allow("google_jobs"))
	rl.RecordSuccess("google_jobs")

	stats := rl.GetSourceStats("google_jobs")
	assert.Equal(t, int64(1), stats["requests"])
}

func TestPoolManagerLifecycle(t *testing.T) {
	factory := &fakeFactory{engine: &fakeEngine{
		name: models.SourceGoogleJobs,
		jobs: []models.JobRecord{{Title: "Data Engineer", Company: "Initech"}},
	}}

	pm := NewPoolManager(poolTestConfig(), factory)
	require.NoError(t, pm.Initialize())
	assert.Error(t, pm.Initialize())
	assert.True(t, pm.IsHealthy())

	result, err := pm.SubmitJob(context.Background(), "google", &models.GoogleScrapeRequest{
		Query:    "data engineer",
		Location: "Berlin",
	})
	require.NoError(t, err)
	assert.Len(t, result.Jobs, 1)

	stats, err := pm.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, int64(1), stats.PoolStats.JobsProcessed)

	require.NoError(t, pm.Shutdown())
	assert.False(t, pm.IsHealthy())
}
