package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
)

const (
	DefaultMaxWorkers   = 10
	DefaultMaxQueueSize = 100

	MaxWorkers   = 1000
	MaxQueueSize = 10000
)

// ExecuteFunc runs one background task and returns its result payload.
type ExecuteFunc func(ctx context.Context) (interface{}, error)

// TaskManager defines the interface for managing background tasks
type TaskManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// SubmitTask queues a task for background execution. The metadata is
	// attached to the stored result for monitoring.
	SubmitTask(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, execute ExecuteFunc) error

	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)
	ListTasks(ctx context.Context) ([]*TaskResult, error)
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config       *config.Config
	store        TaskStore
	taskLogger   *TaskCompletionLogger
	appLogger    types.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	running      bool
	taskChan     chan *taskExecution
	maxWorkers   int
	maxQueueSize int
}

type taskExecution struct {
	processID string
	taskType  TaskType
	ctx       context.Context
	cancel    context.CancelFunc
	execute   ExecuteFunc
}

func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.Workers.PoolSize
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = cfg.Workers.QueueSize
	if maxQueueSize <= 0 {
		maxQueueSize = DefaultMaxQueueSize
	} else if maxQueueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", maxQueueSize, MaxQueueSize)
	}

	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager over the given store.
func NewTaskManager(cfg *config.Config, store TaskStore) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	if store == nil {
		store = NewInMemoryTaskStore()
	}

	return &TaskManagerImpl{
		config:       cfg,
		store:        store,
		taskLogger:   NewTaskCompletionLogger(),
		appLogger:    logger,
		maxWorkers:   maxWorkers,
		maxQueueSize: maxQueueSize,
		taskChan:     make(chan *taskExecution, maxQueueSize),
	}
}

// Start starts the task manager workers and the cleanup routine.
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers":    tm.maxWorkers,
		"max_queue_size": tm.maxQueueSize,
	})
	return nil
}

// Stop stops the task manager gracefully.
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	// The channel is never closed: a submitter racing this shutdown may
	// still be sending, and workers drain via ctx cancellation instead.
	tm.cancel()

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out", map[string]interface{}{})
	}

	tm.running = false
	return nil
}

// SubmitTask queues a task for background execution.
func (tm *TaskManagerImpl) SubmitTask(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, execute ExecuteFunc) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      taskType,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	tm.taskLogger.LogTaskAccepted(processID, taskType)

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	execution := &taskExecution{
		processID: processID,
		taskType:  taskType,
		ctx:       taskCtx,
		cancel:    cancelFunc,
		execute:   execute,
	}

	select {
	case tm.taskChan <- execution:
		return nil
	case <-ctx.Done():
		cancelFunc()
		return ctx.Err()
	default:
		cancelFunc()
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID.
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID.
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all known tasks.
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is accepting work.
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task := <-tm.taskChan:
			tm.processTask(workerID, task)
		}
	}
}

func (tm *TaskManagerImpl) processTask(workerID int, task *taskExecution) {
	defer task.cancel()

	startTime := time.Now()

	tm.appLogger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.processID,
		"task_type":  task.taskType,
	})

	if err := tm.updateTaskStatus(task.processID, TaskStatusProcessing); err != nil {
		tm.appLogger.Error("Failed to update task status to processing", map[string]interface{}{
			"process_id": task.processID,
			"error":      err.Error(),
		})
	}

	tm.taskLogger.LogTaskStart(task.processID, task.taskType)

	data, err := task.execute(task.ctx)
	processingTime := time.Since(startTime)
	completedAt := time.Now()

	result, getErr := tm.store.Get(task.ctx, task.processID)
	if getErr != nil {
		result = &TaskResult{
			ProcessID: task.processID,
			Type:      task.taskType,
			CreatedAt: startTime,
		}
	}

	result.ProcessingTime = processingTime
	result.CompletedAt = &completedAt

	if err != nil {
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		tm.taskLogger.LogTaskError(task.processID, task.taskType, err)
	} else {
		result.Status = TaskStatusSuccess
		result.Data = data
		tm.taskLogger.LogTaskComplete(task.processID, task.taskType, processingTime)
	}

	// Store with a fresh context: the task context may already be done
	storeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if storeErr := tm.store.Store(storeCtx, result); storeErr != nil {
		tm.appLogger.Error("Failed to store task result", map[string]interface{}{
			"process_id": task.processID,
			"error":      storeErr.Error(),
		})
	}
}

func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return err
	}

	result.Status = status
	return tm.store.Update(ctx, result)
}

func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	interval := tm.config.BackgroundTasks.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := tm.store.Cleanup(ctx, tm.config.BackgroundTasks.MaxTaskAge); err != nil {
				tm.appLogger.Error("Task cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			cancel()
		}
	}
}
