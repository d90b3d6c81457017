package models

import "time"

// ScrapeResponse is the response of the job-board passthrough endpoint.
type ScrapeResponse struct {
	Jobs  []BoardJob `json:"jobs"`
	Count int        `json:"count"`
}

// GoogleScrapeResponse is the response of the Google Jobs endpoint.
// An empty job list is a valid result, not an error: after exhausting
// retries the engine reports nothing found.
type GoogleScrapeResponse struct {
	Success        bool          `json:"success"`
	Jobs           []JobRecord   `json:"jobs"`
	Count          int           `json:"count"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
