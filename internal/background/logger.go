package background

import (
	"time"

	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
)

// TaskCompletionLogger emits the lifecycle log lines for background
// tasks, keyed by process ID so a task can be traced end to end.
type TaskCompletionLogger struct {
	logger types.Logger
}

// NewTaskCompletionLogger creates a task lifecycle logger.
func NewTaskCompletionLogger() *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger: logging.GetGlobalLogger().WithField("component", "background"),
	}
}

// LogTaskAccepted logs that a task was accepted into the queue.
func (l *TaskCompletionLogger) LogTaskAccepted(processID string, taskType TaskType) {
	l.logger.Info("Task accepted", map[string]interface{}{
		"process_id": processID,
		"task_type":  taskType,
		"status":     TaskStatusAccepted,
	})
}

// LogTaskStart logs that a worker picked the task up.
func (l *TaskCompletionLogger) LogTaskStart(processID string, taskType TaskType) {
	l.logger.Info("Task processing started", map[string]interface{}{
		"process_id": processID,
		"task_type":  taskType,
		"status":     TaskStatusProcessing,
	})
}

// LogTaskComplete logs successful completion.
func (l *TaskCompletionLogger) LogTaskComplete(processID string, taskType TaskType, processingTime time.Duration) {
	l.logger.Info("Task completed", map[string]interface{}{
		"process_id":      processID,
		"task_type":       taskType,
		"status":          TaskStatusSuccess,
		"processing_time": processingTime.String(),
	})
}

// LogTaskError logs a failed task.
func (l *TaskCompletionLogger) LogTaskError(processID string, taskType TaskType, err error) {
	l.logger.Error("Task failed", map[string]interface{}{
		"process_id": processID,
		"task_type":  taskType,
		"status":     TaskStatusFailure,
		"error":      err.Error(),
	})
}
