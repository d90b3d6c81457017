package routes

import (
	"net/http"

	"jobspy-service/internal/api/handlers"
	"jobspy-service/internal/api/middleware"
	"jobspy-service/internal/background"
	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/scraper/engines/googlejobs"
	"jobspy-service/internal/scraper/engines/jobspy"
	"jobspy-service/internal/scraper/workers"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	poolManager *workers.PoolManager,
	taskManager background.TaskManager,
	jobspyClient *jobspy.Client,
	bulkScraper *googlejobs.BulkScraper,
) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(poolManager, taskManager, jobspyClient))
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/workers", handlers.WorkerHealthHandler(poolManager))

		// Logging system monitoring
		health.GET("/logging", func(c echo.Context) error {
			logger := logging.GetGlobalLogger()
			logger.Info("Logging health check requested", map[string]interface{}{
				"request_id": c.Response().Header().Get("X-Request-ID"),
			})
			return c.JSON(http.StatusOK, map[string]interface{}{
				"status": "ok",
				"level":  cfg.Logging.Level,
			})
		})
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(poolManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		// Board passthrough search
		v1.POST("/scrape", handlers.ScrapeHandler(jobspyClient))

		// Google Jobs engine
		google := v1.Group("/scrape/google")
		{
			google.POST("", handlers.GoogleScrapeHandler(cfg, poolManager))
			google.POST("/async", handlers.AsyncGoogleScrapeHandler(cfg, poolManager, taskManager))
			google.POST("/bulk", handlers.BulkGoogleScrapeHandler(cfg, bulkScraper, taskManager))
		}

		// Background task polling
		v1.GET("/tasks", handlers.TaskListHandler(taskManager))
		v1.GET("/tasks/:processId", handlers.TaskStatusHandler(taskManager))

		// Worker monitoring routes
		workersGroup := v1.Group("/workers")
		{
			workersGroup.GET("/stats", handlers.WorkerStatsHandler(poolManager))
			workersGroup.GET("/stats/:engine", handlers.EngineStatsHandler(poolManager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "JobSpy Scraper Service",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
