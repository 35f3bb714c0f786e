package client

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net"
	"net/http"

	"resumelens/internal/errors"
)

// envelope is the wire format every service endpoint responds with.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Code      string          `json:"code,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// transientCodes are service error codes that indicate a condition worth
// retrying regardless of the HTTP status they arrived with.
var transientCodes = map[string]bool{
	"RATE_LIMIT_EXCEEDED":        true,
	"REQUEST_TIMEOUT":            true,
	"CONNECTION_FAILED":          true,
	"AI_SERVICE_UNAVAILABLE":     true,
	"INTERNAL_SERVER_ERROR":      true,
	"INTERNAL_ERROR":             true,
	"ANALYSIS_FAILED":            true,
	"QUESTION_GENERATION_FAILED": true,
}

// retryableStatuses are HTTP statuses that indicate a transient failure.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// curatedMessages maps known service error codes to the messages shown to
// users. Unknown codes fall back to the server-provided message, then to a
// generic default.
var curatedMessages = map[string]string{
	"MISSING_RESUME_TEXT":        "No resume text was provided",
	"EMPTY_RESUME_TEXT":          "Resume text cannot be empty",
	"RESUME_TOO_SHORT":           "Resume text is too short. Please provide a complete resume with at least 50 characters",
	"FILE_TOO_LARGE":             "File is too large. Maximum size is 10MB",
	"INVALID_CONTENT_TYPE":       "The request was not understood by the analysis service",
	"BAD_REQUEST":                "The request was not understood by the analysis service",
	"NOT_FOUND":                  "The requested operation does not exist on the analysis service",
	"METHOD_NOT_ALLOWED":         "The requested operation does not exist on the analysis service",
	"API_KEY_ERROR":              "The analysis service is not configured correctly. Please try again later",
	"RATE_LIMIT_EXCEEDED":        "Too many requests. Please wait a moment and try again",
	"REQUEST_TIMEOUT":            "The request took too long to process. Please try again",
	"CONNECTION_FAILED":          "Unable to reach the AI provider. Please try again",
	"AI_SERVICE_UNAVAILABLE":     "The AI service is temporarily unavailable. Please try again in a few moments",
	"INTERNAL_SERVER_ERROR":      "Something went wrong on the analysis service. Please try again",
	"INTERNAL_ERROR":             "Something went wrong on the analysis service. Please try again",
	"ANALYSIS_FAILED":            "Resume analysis failed. Please try again",
	"QUESTION_GENERATION_FAILED": "Interview question generation failed. Please try again",
}

const defaultServiceMessage = "The analysis service returned an error. Please try again"

// messageFor resolves the user-facing message for a service failure.
func messageFor(code, serverMessage string) string {
	if msg, ok := curatedMessages[code]; ok {
		return msg
	}
	if serverMessage != "" {
		return serverMessage
	}
	return defaultServiceMessage
}

// classifyServiceError turns a non-success envelope into a typed error.
// Rate-limit responses get their own class; everything else is an API error
// whose retryability is decided by status and code.
func classifyServiceError(status int, code, serverMessage string) *errors.AppError {
	if code == "" {
		code = http.StatusText(status)
	}

	message := messageFor(code, serverMessage)

	if status == http.StatusTooManyRequests || code == errors.ErrCodeRateLimited {
		return errors.NewRateLimitError(errors.ErrCodeRateLimited, message, nil).WithStatus(status)
	}

	retryable := retryableStatuses[status] || transientCodes[code]
	return errors.NewAPIError(code, message, retryable, nil).WithStatus(status)
}

// classifyTransportError maps a failed round trip to the error taxonomy.
// parent is the caller's context, before the per-call deadline was attached:
// a deadline expiry with a live parent is a timeout, while a dead parent
// means the caller aborted and the cancellation passes through untyped so
// callers can recognize and discard it.
func classifyTransportError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	if goerrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(errors.ErrCodeRequestTimeout,
			curatedMessages["REQUEST_TIMEOUT"], err)
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeoutError(errors.ErrCodeRequestTimeout,
			curatedMessages["REQUEST_TIMEOUT"], err)
	}

	return errors.NewNetworkError(errors.ErrCodeNetworkFailure,
		"Unable to connect to the analysis service. Please check your connection and try again", err)
}
