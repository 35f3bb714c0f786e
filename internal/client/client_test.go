package client

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	return New(config.ServiceConfig{
		BaseURL:       baseURL,
		Timeout:       2 * time.Second,
		HealthTimeout: time.Second,
		MaxRetries:    maxRetries,
	}, logger)
}

func TestAnalyzeResumeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"isPerfect": false,
				"overallScore": 85,
				"summary": "Strong resume overall",
				"strengths": ["Clear work history"],
				"suggestions": ["Add measurable outcomes"],
				"keywordAnalysis": {"score": 70, "presentKeywords": ["Go"], "missingKeywords": ["Kubernetes"]}
			}
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	result, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "text"})
	if err != nil {
		t.Fatalf("AnalyzeResume failed: %v", err)
	}
	if result.OverallScore != 85 {
		t.Errorf("expected score 85, got %d", result.OverallScore)
	}
	if result.Summary != "Strong resume overall" {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.KeywordAnalysis.Score != 70 {
		t.Errorf("expected keyword score 70, got %d", result.KeywordAnalysis.Score)
	}
}

func TestAnalyzeResumeNormalizesPerfect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"data": {
				"isPerfect": true,
				"overallScore": 100,
				"summary": "Perfect",
				"suggestions": ["should not survive"],
				"unnecessaryItems": ["should not survive"]
			}
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	result, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "text"})
	if err != nil {
		t.Fatalf("AnalyzeResume failed: %v", err)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("perfect result kept suggestions: %v", result.Suggestions)
	}
	if len(result.UnnecessaryItems) != 0 {
		t.Errorf("perfect result kept unnecessary items: %v", result.UnnecessaryItems)
	}
}

func TestAnalyzeResumeNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	_, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "text"})
	if err == nil {
		t.Fatal("expected error for missing data")
	}

	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Type != errors.ErrorTypeAPI {
		t.Errorf("expected api error, got %s", appErr.Type)
	}
	if appErr.Retryable {
		t.Error("missing data must not be retryable")
	}
	if appErr.Message != "no data in response" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestServiceErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		code      string
		wantType  errors.ErrorType
		retryable bool
	}{
		{"rate limit by status", http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", errors.ErrorTypeRateLimit, true},
		{"server error", http.StatusInternalServerError, "INTERNAL_ERROR", errors.ErrorTypeAPI, true},
		{"bad gateway", http.StatusBadGateway, "", errors.ErrorTypeAPI, true},
		{"service unavailable", http.StatusServiceUnavailable, "AI_SERVICE_UNAVAILABLE", errors.ErrorTypeAPI, true},
		{"gateway timeout", http.StatusGatewayTimeout, "", errors.ErrorTypeAPI, true},
		{"request timeout status", http.StatusRequestTimeout, "", errors.ErrorTypeAPI, true},
		{"transient code on odd status", http.StatusConflict, "ANALYSIS_FAILED", errors.ErrorTypeAPI, true},
		{"validation rejection", http.StatusBadRequest, "RESUME_TOO_SHORT", errors.ErrorTypeAPI, false},
		{"missing text", http.StatusBadRequest, "MISSING_RESUME_TEXT", errors.ErrorTypeAPI, false},
		{"api key misconfigured", http.StatusInternalServerError, "API_KEY_ERROR", errors.ErrorTypeAPI, true},
		{"not found", http.StatusNotFound, "NOT_FOUND", errors.ErrorTypeAPI, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := classifyServiceError(tt.status, tt.code, "")
			if appErr.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, appErr.Type)
			}
			if appErr.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, appErr.Retryable)
			}
			if appErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, appErr.Status)
			}
		})
	}
}

func TestCuratedMessages(t *testing.T) {
	appErr := classifyServiceError(http.StatusBadRequest, "RESUME_TOO_SHORT", "server said something else")
	want := "Resume text is too short. Please provide a complete resume with at least 50 characters"
	if appErr.Message != want {
		t.Errorf("expected curated message, got %q", appErr.Message)
	}

	appErr = classifyServiceError(http.StatusTeapot, "UNKNOWN_CODE", "server message")
	if appErr.Message != "server message" {
		t.Errorf("expected server message fallback, got %q", appErr.Message)
	}

	appErr = classifyServiceError(http.StatusTeapot, "UNKNOWN_CODE", "")
	if appErr.Message != defaultServiceMessage {
		t.Errorf("expected generic default, got %q", appErr.Message)
	}
}

func TestAnalyzeResumeRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"success": false, "error": "upstream down", "code": "AI_SERVICE_UNAVAILABLE"}`))
			return
		}
		w.Write([]byte(`{"success": true, "data": {"overallScore": 60, "summary": "ok"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 1)

	result, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "text"})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if result.OverallScore != 60 {
		t.Errorf("expected score 60, got %d", result.OverallScore)
	}
}

func TestAnalyzeResumeDoesNotRetryValidation(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "error": "too short", "code": "RESUME_TOO_SHORT"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 3)

	_, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "short"})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("non-retryable failure should stop after 1 attempt, got %d", attempts)
	}
}

func TestDeadlineClassifiedAsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read starts and the
		// request context is canceled when the client disconnects.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	logger, _ := errors.New("error")
	c := New(config.ServiceConfig{
		BaseURL:       server.URL,
		Timeout:       50 * time.Millisecond,
		HealthTimeout: time.Second,
		MaxRetries:    0,
	}, logger)

	_, err := c.AnalyzeResume(context.Background(), &types.AnalyzeResumeInput{ResumeText: "text"})
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Type != errors.ErrorTypeTimeout {
		t.Errorf("expected timeout classification, got %s", appErr.Type)
	}
	if !appErr.Retryable {
		t.Error("timeouts must be retryable")
	}
}

func TestCancellationPassesThroughUntyped(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 3)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.AnalyzeResume(ctx, &types.AnalyzeResumeInput{ResumeText: "text"})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !goerrors.Is(err, context.Canceled) {
		t.Errorf("cancellation must surface as context.Canceled, got %v", err)
	}

	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		t.Errorf("cancellation must not be classified, got %s", appErr.Type)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status": "healthy", "timestamp": "2025-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("unexpected status: %q", status.Status)
	}
}

func TestGenerateQuestionsSendsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-questions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var input types.GenerateQuestionsInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if input.AnalysisResult == nil || input.AnalysisResult.Summary != "solid" {
			t.Errorf("analysis context not forwarded: %+v", input.AnalysisResult)
		}
		w.Write([]byte(`{"success": true, "data": {"questions": [{"question": "Tell me about Go", "category": "technical", "difficulty": "medium"}]}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	result, err := c.GenerateQuestions(context.Background(), &types.GenerateQuestionsInput{
		ResumeText:     "text",
		AnalysisResult: &types.AnalysisContext{Summary: "solid"},
	})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
	if result.Questions[0].Category != "technical" {
		t.Errorf("unexpected category: %q", result.Questions[0].Category)
	}
}
