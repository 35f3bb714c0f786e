package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeRateLimit  ErrorType = "ratelimit"
	ErrorTypeAPI        ErrorType = "api"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeLoad       ErrorType = "load"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType      `json:"type"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Status    int            `json:"status,omitempty"` // HTTP status when the error came off the wire
	Cause     error          `json:"cause,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// newAppError is an unexported helper to create AppError instances
func newAppError(typ ErrorType, code, message string, retryable bool, cause error) *AppError {
	return &AppError{
		Type:      typ,
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// Error constructors for different types. Validation errors are never
// retryable; network, timeout and rate-limit failures always are. API
// errors carry their own retryability, decided by the transport's
// classification of status and service code.
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, false, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, true, cause)
}

func NewTimeoutError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, code, message, true, cause)
}

func NewRateLimitError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeRateLimit, code, message, true, cause)
}

func NewAPIError(code, message string, retryable bool, cause error) *AppError {
	return newAppError(ErrorTypeAPI, code, message, retryable, cause)
}

func NewRenderError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeRender, code, message, false, cause)
}

func NewLoadError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeLoad, code, message, true, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, false, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, false, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, false, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithStatus records the HTTP status the error was classified from
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// IsRetryable reports whether the error is worth retrying. Unclassified
// errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// TypeOf returns the error's classification, or ErrorTypeInternal for
// errors produced outside the taxonomy.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
			"retryable", appErr.Retryable,
		}

		// Add context if available
		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		// Add additional args
		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		// Regular error
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable   = "FILE_NOT_READABLE"
	ErrCodeFileTooLarge      = "FILE_TOO_LARGE"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeEmptyResumeText   = "EMPTY_RESUME_TEXT"
	ErrCodeResumeTooShort    = "RESUME_TOO_SHORT"
	ErrCodeMissingResumeText = "MISSING_RESUME_TEXT"
	ErrCodeNetworkFailure    = "CONNECTION_FAILED"
	ErrCodeRequestTimeout    = "REQUEST_TIMEOUT"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	ErrCodeNoData            = "NO_DATA"
	ErrCodeOperationInFlight = "OPERATION_IN_FLIGHT"
	ErrCodeNothingToRetry    = "NOTHING_TO_RETRY"
	ErrCodePageOutOfRange    = "PAGE_OUT_OF_RANGE"
	ErrCodeRenderFailed      = "RENDER_FAILED"
	ErrCodeDocumentLoad      = "DOCUMENT_LOAD_FAILED"
	ErrCodeEncryptedPDF      = "ENCRYPTED_PDF"
	ErrCodeUnreadablePDF     = "UNREADABLE_PDF"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
	ErrCodeMissingAPIKey     = "MISSING_API_KEY"
	ErrCodeBreakerOpen       = "SERVICE_SUSPENDED"
)
