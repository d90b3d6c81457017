package handlers

import (
	"net/http"

	"jobspy-service/internal/background"
	"jobspy-service/internal/logging"
	"jobspy-service/pkg/models"

	"github.com/labstack/echo/v4"
)

// TaskStatusHandler returns the status and, once complete, the result of
// a background scrape task.
func TaskStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		processID := c.Param("processId")
		if processID == "" {
			return c.JSON(http.StatusBadRequest, models.CreateAsyncErrorResponse(
				"missing_process_id", "Process ID parameter is required"))
		}

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			logging.GetGlobalLogger().Debug("Task lookup failed", map[string]interface{}{
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusNotFound, models.CreateAsyncErrorResponse(
				"task_not_found", "No task exists for the given process ID", processID))
		}

		response := models.AsyncTaskStatusResponse{
			ProcessID: result.ProcessID,
			Status:    models.AsyncStatus(result.Status),
			Data:      result.Data,
			Error:     result.Error,
			CreatedAt: result.CreatedAt,
			Metadata:  result.Metadata,
		}
		if result.CompletedAt != nil {
			response.CompletedAt = result.CompletedAt
			pt := result.ProcessingTime
			response.ProcessingTime = &pt
		}

		return c.JSON(http.StatusOK, response)
	}
}

// TaskListHandler returns every tracked background task.
func TaskListHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := taskManager.ListTasks(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.CreateAsyncErrorResponse(
				"task_list_failed", "Could not list background tasks"))
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"tasks": tasks,
			"count": len(tasks),
		})
	}
}
