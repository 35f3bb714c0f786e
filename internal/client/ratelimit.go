package client

import (
	"context"
	"sync"

	"resumelens/internal/errors"

	"golang.org/x/time/rate"
)

// Pacer spreads outgoing requests over time, one limiter per operation so a
// burst of analyze calls cannot starve a health probe.
type Pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *errors.Logger
}

// NewPacer creates a request pacer.
// requestsPerMin is the number of requests allowed per minute per operation.
func NewPacer(requestsPerMin, burstCapacity int, logger *errors.Logger) *Pacer {
	// The rate.Limit is specified in requests per second.
	r := rate.Limit(float64(requestsPerMin) / 60.0)

	return &Pacer{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burstCapacity,
		logger:   logger,
	}
}

// getLimiter retrieves or creates a limiter for a given operation.
func (p *Pacer) getLimiter(operation string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, exists := p.limiters[operation]
	if !exists {
		limiter = rate.NewLimiter(p.rate, p.burst)
		p.limiters[operation] = limiter
	}

	return limiter
}

// Wait blocks until the operation may proceed or the context is done.
// A nil pacer allows everything.
func (p *Pacer) Wait(ctx context.Context, operation string) error {
	if p == nil {
		return nil
	}

	limiter := p.getLimiter(operation)
	if limiter.Allow() {
		return nil
	}

	if p.logger != nil {
		p.logger.Debug("Pacing outgoing request", "operation", operation)
	}
	return limiter.Wait(ctx)
}

// GetStats returns current pacer statistics
func (p *Pacer) GetStats() map[string]any {
	if p == nil {
		return map[string]any{"enabled": false}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"active_limiters": len(p.limiters),
		"rate_per_minute": float64(p.rate) * 60.0,
		"burst_capacity":  p.burst,
	}
}
