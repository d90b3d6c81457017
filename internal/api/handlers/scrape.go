package handlers

import (
	"net/http"
	"time"

	"jobspy-service/internal/logging"
	"jobspy-service/internal/scraper/engines/jobspy"
	"jobspy-service/pkg/models"
	"jobspy-service/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ScrapeHandler forwards a board search to the external scraping
// collaborator and returns its normalized rows.
func ScrapeHandler(client *jobspy.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Board scrape request received")

		var req models.ScrapeRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if len(req.SiteNames) == 0 {
			req.SiteNames = []string{"indeed", "linkedin"}
		}
		if req.ResultsWanted <= 0 {
			req.ResultsWanted = 20
		}

		jobs, err := client.Scrape(c.Request().Context(), &req)
		if err != nil {
			logger.Error("Board scrape failed", map[string]interface{}{
				"search_term": req.SearchTerm,
				"error":       err.Error(),
			})
			upstreamErr := utils.NewUpstreamError(err.Error())
			return c.JSON(upstreamErr.Code, models.ErrorResponse{
				Error:     "upstream_failed",
				Message:   upstreamErr.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Board scrape completed", map[string]interface{}{
			"search_term": req.SearchTerm,
			"count":       len(jobs),
			"duration":    utils.FormatDuration(time.Since(startTime)),
		})

		return c.JSON(http.StatusOK, models.ScrapeResponse{
			Jobs:  jobs,
			Count: len(jobs),
		})
	}
}
