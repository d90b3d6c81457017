package workers

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
)

// SourceLimiter represents rate limiting for a specific search source
type SourceLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	failures int64
	mu       sync.RWMutex
}

// CircuitBreaker represents a circuit breaker for a source
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailTime time.Time
	state        CircuitState
	mu           sync.RWMutex
}

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// RateLimiter manages rate limiting and circuit breaking per source.
// Searches hammer a single upstream, so repeated failures open the
// circuit and shed load instead of burning proxy sessions.
type RateLimiter struct {
	config          *config.Config
	sourceLimiters  map[string]*SourceLimiter
	circuitBreakers map[string]*CircuitBreaker
	mu              sync.RWMutex
	logger          types.Logger
	cleanupTicker   *time.Ticker
	stopCleanup     chan bool
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		config:          cfg,
		sourceLimiters:  make(map[string]*SourceLimiter),
		circuitBreakers: make(map[string]*CircuitBreaker),
		logger:          logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		cleanupTicker:   time.NewTicker(5 * time.Minute),
		stopCleanup:     make(chan bool),
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow checks if a search against the given source is allowed
func (rl *RateLimiter) Allow(source string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	source = strings.ToLower(source)

	if !rl.isCircuitClosed(source) {
		rl.logger.Debug("Search rejected by circuit breaker", map[string]interface{}{
			"source": source,
		})
		return false
	}

	limiter := rl.getSourceLimiter(source)

	allowed := limiter.limiter.Allow()
	if allowed {
		limiter.mu.Lock()
		limiter.requests++
		limiter.lastSeen = time.Now()
		limiter.mu.Unlock()
	} else {
		rl.logger.Debug("Search rejected by rate limiter", map[string]interface{}{
			"source": source,
		})
	}

	return allowed
}

// RecordSuccess records a successful search for the source
func (rl *RateLimiter) RecordSuccess(source string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	source = strings.ToLower(source)

	if cb, exists := rl.circuitBreakers[source]; exists {
		cb.mu.Lock()
		if cb.state == CircuitHalfOpen {
			cb.state = CircuitClosed
			cb.failureCount = 0
			rl.logger.Info("Circuit breaker closed after successful search", map[string]interface{}{
				"source": source,
			})
		}
		cb.mu.Unlock()
	}
}

// RecordFailure records a failed search for the source
func (rl *RateLimiter) RecordFailure(source string, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	source = strings.ToLower(source)

	if limiter, exists := rl.sourceLimiters[source]; exists {
		limiter.mu.Lock()
		limiter.failures++
		limiter.mu.Unlock()
	}

	cb := rl.getCircuitBreaker(source)
	cb.mu.Lock()
	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.failureCount >= cb.maxFailures && cb.state == CircuitClosed {
		cb.state = CircuitOpen
		fields := map[string]interface{}{
			"source":   source,
			"failures": cb.failureCount,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		rl.logger.Warn("Circuit breaker opened due to failures", fields)
	}
	cb.mu.Unlock()
}

// getSourceLimiter gets or creates a rate limiter for a source
func (rl *RateLimiter) getSourceLimiter(source string) *SourceLimiter {
	if limiter, exists := rl.sourceLimiters[source]; exists {
		return limiter
	}

	// Rate limit: requests per minute converted to requests per second
	rps := rate.Limit(float64(rl.config.Workers.RateLimit) / 60.0)
	burst := 5

	limiter := &SourceLimiter{
		limiter:  rate.NewLimiter(rps, burst),
		lastSeen: time.Now(),
	}

	rl.sourceLimiters[source] = limiter

	rl.logger.Info("Created new source rate limiter", map[string]interface{}{
		"source": source,
		"rate":   float64(rps),
		"burst":  burst,
	})

	return limiter
}

// getCircuitBreaker gets or creates a circuit breaker for a source
func (rl *RateLimiter) getCircuitBreaker(source string) *CircuitBreaker {
	if cb, exists := rl.circuitBreakers[source]; exists {
		return cb
	}

	cb := &CircuitBreaker{
		maxFailures:  5,
		resetTimeout: 30 * time.Second,
		state:        CircuitClosed,
	}

	rl.circuitBreakers[source] = cb

	return cb
}

// isCircuitClosed checks if the circuit breaker allows searches
func (rl *RateLimiter) isCircuitClosed(source string) bool {
	cb := rl.getCircuitBreaker(source)

	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.mu.RUnlock()
			cb.mu.Lock()
			if cb.state == CircuitOpen && time.Since(cb.lastFailTime) > cb.resetTimeout {
				cb.state = CircuitHalfOpen
				rl.logger.Info("Circuit breaker transitioned to half-open", map[string]interface{}{
					"source": source,
				})
			}
			cb.mu.Unlock()
			cb.mu.RLock()
			return cb.state == CircuitHalfOpen
		}
		return false
	case CircuitHalfOpen:
		return true
	default:
		return false
	}
}

// GetSourceStats returns statistics for a specific source
func (rl *RateLimiter) GetSourceStats(source string) map[string]interface{} {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	source = strings.ToLower(source)
	stats := make(map[string]interface{})

	if limiter, exists := rl.sourceLimiters[source]; exists {
		limiter.mu.RLock()
		stats["requests"] = limiter.requests
		stats["failures"] = limiter.failures
		stats["last_seen"] = limiter.lastSeen
		stats["limit"] = float64(limiter.limiter.Limit())
		stats["burst"] = limiter.limiter.Burst()
		limiter.mu.RUnlock()
	}

	if cb, exists := rl.circuitBreakers[source]; exists {
		cb.mu.RLock()
		stats["circuit_state"] = cb.state.String()
		stats["failure_count"] = cb.failureCount
		stats["max_failures"] = cb.maxFailures
		stats["last_fail_time"] = cb.lastFailTime
		cb.mu.RUnlock()
	}

	return stats
}

// GetAllStats returns statistics for all sources
func (rl *RateLimiter) GetAllStats() map[string]map[string]interface{} {
	rl.mu.RLock()

	sources := make(map[string]bool)
	for source := range rl.sourceLimiters {
		sources[source] = true
	}
	for source := range rl.circuitBreakers {
		sources[source] = true
	}
	rl.mu.RUnlock()

	allStats := make(map[string]map[string]interface{})
	for source := range sources {
		allStats[source] = rl.GetSourceStats(source)
	}

	return allStats
}

// cleanupRoutine periodically cleans up old unused limiters
func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

// cleanup removes old unused limiters and circuit breakers
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	removedCount := 0

	for source, limiter := range rl.sourceLimiters {
		limiter.mu.RLock()
		lastSeen := limiter.lastSeen
		limiter.mu.RUnlock()

		if lastSeen.Before(cutoff) {
			delete(rl.sourceLimiters, source)
			removedCount++
		}
	}

	for source, cb := range rl.circuitBreakers {
		cb.mu.RLock()
		lastFailTime := cb.lastFailTime
		state := cb.state
		cb.mu.RUnlock()

		if state == CircuitClosed && lastFailTime.Before(cutoff) {
			delete(rl.circuitBreakers, source)
		}
	}

	if removedCount > 0 {
		rl.logger.Info("Cleaned up unused rate limiters", map[string]interface{}{
			"removed_count": removedCount,
		})
	}
}

// Stop stops the rate limiter and cleanup routine
func (rl *RateLimiter) Stop() {
	rl.stopCleanup <- true
}

// String returns string representation of CircuitState
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
