package client

import (
	"encoding/json"
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// ServiceCircuitBreaker wraps service calls with circuit breaker protection.
// All operations share one breaker since they target the same upstream.
type ServiceCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[json.RawMessage]
}

// NewServiceCircuitBreaker creates a circuit breaker for the analysis service
func NewServiceCircuitBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *ServiceCircuitBreaker {
	// If circuit breaker is disabled, return nil to indicate no circuit breaker
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "resume-analysis-service",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &ServiceCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[json.RawMessage](settings),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *ServiceCircuitBreaker) Execute(fn func() (json.RawMessage, error)) (json.RawMessage, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}

	result, err := cb.cb.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, errors.NewAPIError(errors.ErrCodeBreakerOpen,
			fmt.Sprintf("The analysis service is suspended after repeated failures (%v). Please try again shortly", err), true, err)
	}
	return result, err
}

// State returns the current breaker state as a string
func (cb *ServiceCircuitBreaker) State() string {
	if cb == nil || cb.cb == nil {
		return "disabled"
	}
	return cb.cb.State().String()
}

// GetStats returns circuit breaker statistics
func (cb *ServiceCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *ServiceCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}
