// Package client implements the HTTP transport to the remote resume
// analysis service: envelope decoding, failure classification, retry with
// backoff, circuit breaking and request pacing.
package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"net/http"
	"strings"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	analyzePath   = "/api/analyze"
	questionsPath = "/api/generate-questions"
	healthPath    = "/api/health"
)

// Client talks to the resume analysis service.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	timeout       time.Duration
	healthTimeout time.Duration
	maxRetries    int
	breaker       *ServiceCircuitBreaker
	pacer         *Pacer
	logger        *errors.Logger
}

// New creates a service client from configuration. The HTTP transport is
// instrumented for tracing; per-call deadlines come from contexts, not the
// http.Client.
func New(cfg config.ServiceConfig, logger *errors.Logger) *Client {
	var pacer *Pacer
	if cfg.RateLimit.Enabled {
		pacer = NewPacer(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout:       cfg.Timeout,
		healthTimeout: cfg.HealthTimeout,
		maxRetries:    cfg.MaxRetries,
		breaker:       NewServiceCircuitBreaker(cfg.CircuitBreaker, logger),
		pacer:         pacer,
		logger:        logger,
	}
}

// AnalyzeResume submits resume text for analysis.
func (c *Client) AnalyzeResume(ctx context.Context, input *types.AnalyzeResumeInput) (*types.AnalysisResult, error) {
	raw, err := c.execute(ctx, "analyze", analyzePath, input)
	if err != nil {
		return nil, err
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewAPIError(errors.ErrCodeNoData,
			"The analysis service returned an unreadable result", false, err)
	}

	normalizeAnalysis(&result)
	return &result, nil
}

// GenerateQuestions submits resume text, with optional analysis context,
// for interview question generation.
func (c *Client) GenerateQuestions(ctx context.Context, input *types.GenerateQuestionsInput) (*types.QuestionsResult, error) {
	raw, err := c.execute(ctx, "generate_questions", questionsPath, input)
	if err != nil {
		return nil, err
	}

	var result types.QuestionsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewAPIError(errors.ErrCodeNoData,
			"The analysis service returned an unreadable result", false, err)
	}

	return &result, nil
}

// Health probes service liveness with the short health deadline. The probe
// bypasses retry and circuit breaking so a wedged upstream is reported, not
// masked.
func (c *Client) Health(ctx context.Context) (*types.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return nil, errors.NewInternalError("REQUEST_BUILD_FAILED", "Failed to build health request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyServiceError(resp.StatusCode, "", "")
	}

	var status types.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.NewAPIError(errors.ErrCodeNoData,
			"The analysis service returned an unreadable health response", false, err)
	}

	return &status, nil
}

// BreakerState reports the circuit breaker's current state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// execute runs one service operation through pacing, the circuit breaker
// and the retry loop, returning the envelope's data payload.
func (c *Client) execute(ctx context.Context, operation, path string, body any) (json.RawMessage, error) {
	tracer := otel.Tracer("resumelens.client")
	ctx, span := tracer.Start(ctx, "service."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("service.operation", operation))

	if err := c.pacer.Wait(ctx, operation); err != nil {
		span.RecordError(err)
		return nil, classifyTransportError(ctx, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInternalError("REQUEST_ENCODE_FAILED", "Failed to encode request", err)
	}

	raw, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.executeWithRetry(ctx, operation, path, payload)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return raw, nil
}

// executeWithRetry runs the round trip with exponential backoff on
// retryable failures. Caller cancellation stops the loop immediately.
func (c *Client) executeWithRetry(ctx context.Context, operation, path string, payload []byte) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying service operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			// Use crypto/rand for secure random jitter
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.roundTrip(ctx, path, payload)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Service operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Caller aborted; the cancellation passes through untyped.
		if ctx.Err() != nil {
			return nil, lastErr
		}

		if !errors.IsRetryable(err) {
			c.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	c.logger.LogError(lastErr, "Service operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", c.maxRetries+1)

	return nil, lastErr
}

// roundTrip performs a single POST with the per-operation deadline and
// decodes the response envelope.
func (c *Client) roundTrip(ctx context.Context, path string, payload []byte) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternalError("REQUEST_BUILD_FAILED", "Failed to build request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Not an envelope at all; classify on status alone.
		return nil, classifyServiceError(resp.StatusCode, "", "")
	}

	if !env.Success || resp.StatusCode != http.StatusOK {
		return nil, classifyServiceError(resp.StatusCode, env.Code, env.Error)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, errors.NewAPIError(errors.ErrCodeNoData, "no data in response", false, nil)
	}

	return env.Data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

// normalizeAnalysis enforces the perfect-resume contract on received
// results: a perfect resume carries no suggestions and nothing to remove,
// whatever the service sent.
func normalizeAnalysis(r *types.AnalysisResult) {
	if r.IsPerfect {
		r.Suggestions = nil
		r.UnnecessaryItems = nil
	}
}
