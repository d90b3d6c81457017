package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobspy-service/internal/api/routes"
	"jobspy-service/internal/background"
	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/proxy"
	"jobspy-service/internal/scraper"
	"jobspy-service/internal/scraper/browser"
	"jobspy-service/internal/scraper/captcha"
	"jobspy-service/internal/scraper/engines/googlejobs"
	"jobspy-service/internal/scraper/engines/jobspy"
	"jobspy-service/internal/scraper/workers"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging before anything that logs
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting JobSpy Scraper Service")

	// Proxy session provider for the Google engine. Optional: without
	// gateway credentials the engine browses directly.
	var provider *proxy.Provider
	if cfg.Proxy.Enabled {
		provider, err = proxy.NewProvider(cfg)
		if err != nil {
			logger.Fatal("Failed to configure proxy provider", map[string]interface{}{
				"error": err.Error(),
			})
		}
		logger.Info("Proxy session rotation enabled", map[string]interface{}{
			"gateway": fmt.Sprintf("%s:%d", cfg.Proxy.Host, cfg.Proxy.Port),
		})
	}

	// Captcha solver. Optional: without an API key blocked attempts
	// always rotate to a fresh proxy session instead.
	var solver googlejobs.CaptchaSolver
	if cfg.Scraper.Captcha.APIKey != "" {
		solver = captcha.NewTwoCaptchaSolver(cfg)
	}

	sessions := browser.NewManager(cfg)
	engineFactory := scraper.NewEngineFactory(cfg, provider, sessions, solver)

	// Background task store: redis when configured, in-memory otherwise
	var store background.TaskStore
	if cfg.Redis.Enabled {
		store, err = background.NewRedisTaskStore(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis task store", map[string]interface{}{
				"error": err.Error(),
			})
		}
		logger.Info("Using redis task store")
	} else {
		store = background.NewInMemoryTaskStore()
		logger.Info("Using in-memory task store")
	}

	taskManager := background.NewTaskManager(cfg, store)
	ctx := context.Background()
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize worker pool
	poolManager := workers.NewPoolManager(cfg, engineFactory)
	if err := poolManager.Initialize(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer poolManager.Shutdown()

	// Board passthrough client with round-robin proxy rotation
	jobspyClient := jobspy.NewClient(cfg, proxy.NewPool(cfg.Proxy.Static))

	// Bulk runner drives the same engine the workers use, outside the
	// pool: bulk runs are long-lived and must not occupy a worker slot.
	bulkScraper := googlejobs.NewBulkScraper(
		googlejobs.NewScraper(cfg, provider, sessions, solver), cfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, poolManager, taskManager, jobspyClient, bulkScraper)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop task manager first so in-flight background scrapes finish
		logger.Info("Stopping background task manager...")
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping worker pool...")
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
