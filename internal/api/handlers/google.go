package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobspy-service/internal/background"
	"jobspy-service/internal/config"
	"jobspy-service/internal/exporter"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/scraper/engines/googlejobs"
	"jobspy-service/internal/scraper/workers"
	"jobspy-service/pkg/models"
	"jobspy-service/pkg/utils"

	"github.com/labstack/echo/v4"
)

// bindGoogleRequest binds and validates a Google scrape request, writing
// the error response itself on failure.
func bindGoogleRequest(c echo.Context, requestID string) (*models.GoogleScrapeRequest, bool) {
	var req models.GoogleScrapeRequest
	if err := c.Bind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "invalid_request",
			Message:   "Invalid request format",
			RequestID: requestID,
			Timestamp: time.Now(),
		})
		return nil, false
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "validation_failed",
			Message:   err.Error(),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
		return nil, false
	}

	return &req, true
}

// GoogleScrapeHandler runs the Google Jobs engine synchronously through
// the worker pool. An empty job list is a valid 200 response: the engine
// cannot distinguish "nothing matched" from "every attempt failed".
func GoogleScrapeHandler(cfg *config.Config, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Google scrape request received")

		req, ok := bindGoogleRequest(c, requestID)
		if !ok {
			return nil
		}

		result, err := poolManager.SubmitJob(c.Request().Context(), "google", req)
		if err != nil {
			logger.Error("Failed to submit job to worker pool", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "job_submission_failed",
				Message:   fmt.Sprintf("Failed to submit scraping job: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if result.Error != nil {
			logger.Error("Scraping job failed", map[string]interface{}{
				"error": result.Error.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "scraping_failed",
				Message:   fmt.Sprintf("Failed to run search: %v", result.Error),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Google scrape completed", map[string]interface{}{
			"query":    req.Query,
			"location": req.Location,
			"count":    len(result.Jobs),
			"duration": utils.FormatDuration(time.Since(startTime)),
		})

		return c.JSON(http.StatusOK, models.GoogleScrapeResponse{
			Success:        true,
			Jobs:           result.Jobs,
			Count:          len(result.Jobs),
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		})
	}
}

// AsyncGoogleScrapeHandler accepts a Google scrape for background
// execution and returns a process ID for polling.
func AsyncGoogleScrapeHandler(cfg *config.Config, poolManager *workers.PoolManager, taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Async Google scrape request received")

		req, ok := bindGoogleRequest(c, requestID)
		if !ok {
			return nil
		}

		processID := utils.GenerateRequestID()
		metadata := map[string]interface{}{
			"query":    req.Query,
			"location": req.Location,
		}

		err := taskManager.SubmitTask(c.Request().Context(), processID, background.TaskTypeGoogleScrape, metadata,
			func(ctx context.Context) (interface{}, error) {
				result, err := poolManager.SubmitJob(ctx, "google", req)
				if err != nil {
					return nil, err
				}
				if result.Error != nil {
					return nil, result.Error
				}
				return &background.GoogleScrapeTaskData{
					Jobs:     result.Jobs,
					Count:    len(result.Jobs),
					Query:    req.Query,
					Location: req.Location,
				}, nil
			})
		if err != nil {
			logger.Error("Failed to submit background task", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.CreateAsyncErrorResponse(
				"task_submission_failed", "Background task queue is full or unavailable"))
		}

		logger.Info("Async Google scrape accepted", map[string]interface{}{
			"process_id": processID,
			"query":      req.Query,
		})

		return c.JSON(http.StatusAccepted, models.CreateAsyncScrapeResponse(processID))
	}
}

// BulkGoogleScrapeHandler accepts a bulk query-variation scrape. Bulk
// runs are background-only: a full run walks dozens of query variations
// with politeness delays and can take an hour.
func BulkGoogleScrapeHandler(cfg *config.Config, bulk *googlejobs.BulkScraper, taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Bulk Google scrape request received")

		var req models.BulkScrapeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.CreateAsyncErrorResponse(
				"invalid_request", "Invalid request format"))
		}
		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.CreateAsyncErrorResponse(
				"validation_failed", err.Error()))
		}

		processID := utils.GenerateRequestID()
		metadata := map[string]interface{}{
			"base_query":  req.BaseQuery,
			"location":    req.Location,
			"target_jobs": req.TargetJobs,
		}

		err := taskManager.SubmitTask(c.Request().Context(), processID, background.TaskTypeBulkScrape, metadata,
			func(ctx context.Context) (interface{}, error) {
				jobs := bulk.Run(ctx, req.BaseQuery, req.Location, req.TargetJobs)

				data := &background.GoogleScrapeTaskData{
					Jobs:     jobs,
					Count:    len(jobs),
					Query:    req.BaseQuery,
					Location: req.Location,
				}

				if req.Export && len(jobs) > 0 {
					paths, err := exporter.ExportJobs(cfg, jobs, req.BaseQuery)
					if err != nil {
						logging.GetGlobalLogger().Warn("Export failed after bulk scrape", map[string]interface{}{
							"process_id": processID,
							"error":      err.Error(),
						})
					} else {
						data.ExportPaths = paths
					}
				}

				return data, nil
			})
		if err != nil {
			logger.Error("Failed to submit bulk task", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.CreateAsyncErrorResponse(
				"task_submission_failed", "Background task queue is full or unavailable"))
		}

		logger.Info("Bulk Google scrape accepted", map[string]interface{}{
			"process_id": processID,
			"base_query": req.BaseQuery,
		})

		return c.JSON(http.StatusAccepted, models.CreateAsyncScrapeResponse(processID))
	}
}
