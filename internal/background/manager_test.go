package background

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/config"
)

func managerTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 10
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.BackgroundTasks.CleanupInterval = time.Hour
	cfg.BackgroundTasks.MaxTaskAge = time.Hour
	return cfg
}

func waitForStatus(t *testing.T, tm TaskManager, processID string, want TaskStatus) *TaskResult {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		result, err := tm.GetTaskResult(context.Background(), processID)
		if err == nil && result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("task %s never reached status %s", processID, want)
	return nil
}

func TestTaskManagerLifecycle(t *testing.T) {
	tm := NewTaskManager(managerTestConfig(), nil)
	require.NoError(t, tm.Start(context.Background()))
	defer tm.Stop(context.Background())

	err := tm.SubmitTask(context.Background(), "proc-1", TaskTypeGoogleScrape,
		map[string]interface{}{"query": "engineer"},
		func(ctx context.Context) (interface{}, error) {
			return &GoogleScrapeTaskData{Count: 3, Query: "engineer"}, nil
		})
	require.NoError(t, err)

	result := waitForStatus(t, tm, "proc-1", TaskStatusSuccess)
	data, ok := result.Data.(*GoogleScrapeTaskData)
	require.True(t, ok)
	assert.Equal(t, 3, data.Count)
	assert.NotNil(t, result.CompletedAt)
}

func TestTaskManagerRecordsFailure(t *testing.T) {
	tm := NewTaskManager(managerTestConfig(), nil)
	require.NoError(t, tm.Start(context.Background()))
	defer tm.Stop(context.Background())

	err := tm.SubmitTask(context.Background(), "proc-2", TaskTypeBulkScrape, nil,
		func(ctx context.Context) (interface{}, error) {
			return nil, fmt.Errorf("scrape exploded")
		})
	require.NoError(t, err)

	result := waitForStatus(t, tm, "proc-2", TaskStatusFailure)
	assert.Equal(t, "scrape exploded", result.Error)
}

func TestTaskManagerRejectsWhenStopped(t *testing.T) {
	tm := NewTaskManager(managerTestConfig(), nil)

	err := tm.SubmitTask(context.Background(), "proc-3", TaskTypeGoogleScrape, nil,
		func(ctx context.Context) (interface{}, error) { return nil, nil })
	assert.Error(t, err)
}

func TestTaskManagerSubmitDuringStop(t *testing.T) {
	tm := NewTaskManager(managerTestConfig(), nil)
	require.NoError(t, tm.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			tm.SubmitTask(context.Background(), fmt.Sprintf("race-%d", i),
				TaskTypeGoogleScrape, nil,
				func(ctx context.Context) (interface{}, error) { return nil, nil })
		}
	}()

	require.NoError(t, tm.Stop(context.Background()))
	<-done

	err := tm.SubmitTask(context.Background(), "after-stop", TaskTypeGoogleScrape, nil,
		func(ctx context.Context) (interface{}, error) { return nil, nil })
	assert.Error(t, err)
}

func TestInMemoryStoreCleanup(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", CreatedAt: time.Now()}
	require.NoError(t, store.Store(ctx, old))
	require.NoError(t, store.Store(ctx, fresh))

	require.NoError(t, store.Cleanup(ctx, time.Hour))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}
