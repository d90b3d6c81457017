package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
	"jobspy-service/internal/scraper"
	"jobspy-service/pkg/models"
)

// SearchJob represents a job search queued for a worker
type SearchJob struct {
	ID         string
	Request    *models.GoogleScrapeRequest
	Engine     string
	ResultChan chan JobResult
	Context    context.Context
	CreatedAt  time.Time
}

// JobResult represents the outcome of a search job
type JobResult struct {
	JobID    string
	Jobs     []models.JobRecord
	Error    error
	Duration time.Duration
}

// Worker represents a single worker in the pool
type Worker struct {
	ID       int
	JobChan  chan SearchJob
	QuitChan chan bool
	Pool     *WorkerPool
}

// WorkerPool manages a pool of workers that execute search jobs
type WorkerPool struct {
	config        *config.Config
	jobQueue      chan SearchJob
	workers       []*Worker
	dispatcher    *Dispatcher
	rateLimiter   *RateLimiter
	engineFactory scraper.EngineFactory
	logger        types.Logger
	mu            sync.RWMutex
	running       bool
	stats         PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	JobsQueued          int64
	JobsProcessed       int64
	JobsSuccessful      int64
	JobsFailed          int64
	TotalProcessingTime time.Duration
	mu                  sync.RWMutex
}

// PoolStatsData is the exported snapshot of PoolStats
type PoolStatsData struct {
	JobsQueued            int64         `json:"jobs_queued"`
	JobsProcessed         int64         `json:"jobs_processed"`
	JobsSuccessful        int64         `json:"jobs_successful"`
	JobsFailed            int64         `json:"jobs_failed"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(cfg *config.Config, engineFactory scraper.EngineFactory) *WorkerPool {
	jobQueue := make(chan SearchJob, cfg.Workers.QueueSize)

	pool := &WorkerPool{
		config:        cfg,
		jobQueue:      jobQueue,
		rateLimiter:   NewRateLimiter(cfg),
		engineFactory: engineFactory,
		logger:        logging.GetGlobalLogger().WithField("component", "worker_pool"),
	}

	workers := make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		workers[i] = &Worker{
			ID:       i + 1,
			JobChan:  make(chan SearchJob),
			QuitChan: make(chan bool),
			Pool:     pool,
		}
	}
	pool.workers = workers
	pool.dispatcher = NewDispatcher(jobQueue, workers)

	return pool
}

// Start starts the worker pool
func (p *WorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("worker pool already running")
	}

	for _, worker := range p.workers {
		go worker.start()
	}

	p.dispatcher.Start()
	p.running = true

	p.logger.Info("Worker pool started", map[string]interface{}{
		"workers":    len(p.workers),
		"queue_size": p.config.Workers.QueueSize,
	})
	return nil
}

// Stop stops the worker pool gracefully
func (p *WorkerPool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}

	p.dispatcher.Stop()

	for _, worker := range p.workers {
		worker.QuitChan <- true
	}

	p.running = false
	p.logger.Info("Worker pool stopped", map[string]interface{}{})
	return nil
}

// IsRunning returns true if the pool is running
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// SubmitJob submits a search job and waits for its result. The engine's
// own retry loop runs inside the worker, so the wait is bounded by the
// configured worker timeout.
func (p *WorkerPool) SubmitJob(ctx context.Context, engine string, req *models.GoogleScrapeRequest) (*JobResult, error) {
	if !p.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	eng, err := p.engineFactory.CreateEngine(engine)
	if err != nil {
		return nil, err
	}

	if !p.rateLimiter.Allow(eng.Name()) {
		return nil, fmt.Errorf("rate limit exceeded for source: %s", eng.Name())
	}

	job := SearchJob{
		ID:         uuid.New().String(),
		Request:    req,
		Engine:     engine,
		ResultChan: make(chan JobResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	select {
	case p.jobQueue <- job:
		p.stats.mu.Lock()
		p.stats.JobsQueued++
		p.stats.mu.Unlock()
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("job queue is full, timeout submitting job")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timeout := p.config.Workers.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("job %s timed out after %s", job.ID, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetStats returns a snapshot of pool statistics
func (p *WorkerPool) GetStats() PoolStatsData {
	p.stats.mu.RLock()
	defer p.stats.mu.RUnlock()

	data := PoolStatsData{
		JobsQueued:          p.stats.JobsQueued,
		JobsProcessed:       p.stats.JobsProcessed,
		JobsSuccessful:      p.stats.JobsSuccessful,
		JobsFailed:          p.stats.JobsFailed,
		TotalProcessingTime: p.stats.TotalProcessingTime,
	}
	if data.JobsProcessed > 0 {
		data.AverageProcessingTime = data.TotalProcessingTime / time.Duration(data.JobsProcessed)
	}
	return data
}

// start runs the worker loop
func (w *Worker) start() {
	for {
		select {
		case job := <-w.JobChan:
			w.process(job)
		case <-w.QuitChan:
			return
		}
	}
}

// process executes a single search job. The engine handles its own
// retries and returns an empty slice on exhaustion, so an empty result
// counts as a failure for circuit breaking purposes.
func (w *Worker) process(job SearchJob) {
	startTime := time.Now()

	w.Pool.logger.Info("Worker processing search job", map[string]interface{}{
		"worker_id": w.ID,
		"job_id":    job.ID,
		"query":     job.Request.Query,
		"location":  job.Request.Location,
	})

	result := JobResult{JobID: job.ID}

	eng, err := w.Pool.engineFactory.CreateEngine(job.Engine)
	if err != nil {
		result.Error = err
	} else {
		jobs := eng.Search(job.Context, job.Request)
		result.Jobs = jobs

		if len(jobs) > 0 {
			w.Pool.rateLimiter.RecordSuccess(eng.Name())
		} else {
			w.Pool.rateLimiter.RecordFailure(eng.Name(), nil)
		}
	}

	result.Duration = time.Since(startTime)

	w.Pool.stats.mu.Lock()
	w.Pool.stats.JobsProcessed++
	w.Pool.stats.TotalProcessingTime += result.Duration
	if result.Error == nil && len(result.Jobs) > 0 {
		w.Pool.stats.JobsSuccessful++
	} else {
		w.Pool.stats.JobsFailed++
	}
	w.Pool.stats.mu.Unlock()

	select {
	case job.ResultChan <- result:
	default:
		w.Pool.logger.Warn("Job result dropped, no receiver", map[string]interface{}{
			"job_id": job.ID,
		})
	}
}
