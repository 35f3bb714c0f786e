// Package analysis orchestrates analyze and question-generation requests
// for one uploaded resume: local validation before any network traffic,
// single-flight per operation, and a replayable record of the last failed
// operation.
package analysis

import (
	"context"
	goerrors "errors"
	"sync"

	"resumelens/internal/common"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Transport is the slice of the service client the session needs.
type Transport interface {
	AnalyzeResume(ctx context.Context, input *types.AnalyzeResumeInput) (*types.AnalysisResult, error)
	GenerateQuestions(ctx context.Context, input *types.GenerateQuestionsInput) (*types.QuestionsResult, error)
}

// OperationKind identifies which service operation a record refers to.
type OperationKind string

const (
	OpAnalyze           OperationKind = "analyze"
	OpGenerateQuestions OperationKind = "generate_questions"
)

// lastOperation captures everything needed to replay a failed request
// exactly as it was issued.
type lastOperation struct {
	kind        OperationKind
	resumeText  string
	analysisCtx *types.AnalysisContext
}

// Session tracks the analysis state for a single uploaded resume. A new
// upload means a new session.
type Session struct {
	mu        sync.Mutex
	transport Transport
	logger    *errors.Logger

	resumeText string
	analysis   *types.AnalysisResult
	questions  *types.QuestionsResult

	analyzing  bool
	generating bool

	lastErr error
	lastOp  *lastOperation
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	ResumeText string
	Analysis   *types.AnalysisResult
	Questions  *types.QuestionsResult
	Analyzing  bool
	Generating bool
	LastError  error
	CanRetry   bool
}

// NewSession creates a session for one resume's text.
func NewSession(transport Transport, logger *errors.Logger, resumeText string) *Session {
	return &Session{
		transport:  transport,
		logger:     logger,
		resumeText: resumeText,
	}
}

// AnalyzeResume validates the resume text locally and submits it for
// analysis. A second call while one is in flight is rejected.
func (s *Session) AnalyzeResume(ctx context.Context) (*types.AnalysisResult, error) {
	s.mu.Lock()
	if s.analyzing {
		s.mu.Unlock()
		return nil, errors.NewInternalError(errors.ErrCodeOperationInFlight,
			"An analysis is already in progress", nil)
	}
	s.analyzing = true
	op := &lastOperation{kind: OpAnalyze, resumeText: s.resumeText}
	s.mu.Unlock()

	result, err := s.runAnalyze(ctx, op.resumeText)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
	return s.recordAnalyze(op, result, err)
}

// GenerateQuestions validates the resume text locally and requests
// interview questions, forwarding the prior analysis as context when one
// exists. Independent of any analyze call in flight.
func (s *Session) GenerateQuestions(ctx context.Context) (*types.QuestionsResult, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, errors.NewInternalError(errors.ErrCodeOperationInFlight,
			"Question generation is already in progress", nil)
	}
	s.generating = true
	op := &lastOperation{
		kind:        OpGenerateQuestions,
		resumeText:  s.resumeText,
		analysisCtx: s.analysis.Context(),
	}
	s.mu.Unlock()

	result, err := s.runQuestions(ctx, op.resumeText, op.analysisCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	return s.recordQuestions(op, result, err)
}

// RetryLastOperation replays the most recent failed operation with the
// exact inputs it was first issued with.
func (s *Session) RetryLastOperation(ctx context.Context) (OperationKind, error) {
	s.mu.Lock()
	op := s.lastOp
	if op == nil {
		s.mu.Unlock()
		return "", errors.NewValidationError(errors.ErrCodeNothingToRetry,
			"There is no failed operation to retry", nil)
	}

	switch op.kind {
	case OpAnalyze:
		if s.analyzing {
			s.mu.Unlock()
			return op.kind, errors.NewInternalError(errors.ErrCodeOperationInFlight,
				"An analysis is already in progress", nil)
		}
		s.analyzing = true
		s.mu.Unlock()

		result, err := s.runAnalyze(ctx, op.resumeText)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.analyzing = false
		_, err = s.recordAnalyze(op, result, err)
		return op.kind, err

	case OpGenerateQuestions:
		if s.generating {
			s.mu.Unlock()
			return op.kind, errors.NewInternalError(errors.ErrCodeOperationInFlight,
				"Question generation is already in progress", nil)
		}
		s.generating = true
		s.mu.Unlock()

		result, err := s.runQuestions(ctx, op.resumeText, op.analysisCtx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.generating = false
		_, err = s.recordQuestions(op, result, err)
		return op.kind, err

	default:
		s.mu.Unlock()
		return op.kind, errors.NewInternalError(errors.ErrCodeNothingToRetry,
			"Unknown operation kind", nil)
	}
}

// Reset clears all results and error state, keeping the resume text.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysis = nil
	s.questions = nil
	s.lastErr = nil
	s.lastOp = nil
}

// State returns a snapshot of the session.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ResumeText: s.resumeText,
		Analysis:   s.analysis,
		Questions:  s.questions,
		Analyzing:  s.analyzing,
		Generating: s.generating,
		LastError:  s.lastErr,
		CanRetry:   s.lastOp != nil,
	}
}

// runAnalyze performs validation and the network call without holding the
// session lock.
func (s *Session) runAnalyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	if err := common.ValidateResumeText(text); err != nil {
		return nil, err
	}
	return s.transport.AnalyzeResume(ctx, &types.AnalyzeResumeInput{ResumeText: text})
}

func (s *Session) runQuestions(ctx context.Context, text string, analysisCtx *types.AnalysisContext) (*types.QuestionsResult, error) {
	if err := common.ValidateResumeText(text); err != nil {
		return nil, err
	}
	return s.transport.GenerateQuestions(ctx, &types.GenerateQuestionsInput{
		ResumeText:     text,
		AnalysisResult: analysisCtx,
	})
}

// recordAnalyze folds an analyze outcome into session state. Caller holds
// the lock. Failure records the operation for replay, success clears the
// record, and cancellation leaves the session exactly as it was, including
// any earlier failure's record.
func (s *Session) recordAnalyze(op *lastOperation, result *types.AnalysisResult, err error) (*types.AnalysisResult, error) {
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		s.lastErr = err
		s.lastOp = op
		s.logger.LogError(err, "Resume analysis failed")
		return nil, err
	}

	s.analysis = result
	s.lastErr = nil
	s.lastOp = nil
	return result, nil
}

func (s *Session) recordQuestions(op *lastOperation, result *types.QuestionsResult, err error) (*types.QuestionsResult, error) {
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		s.lastErr = err
		s.lastOp = op
		s.logger.LogError(err, "Question generation failed")
		return nil, err
	}

	s.questions = result
	s.lastErr = nil
	s.lastOp = nil
	return result, nil
}

// isCancellation reports whether the error is a caller abort rather than a
// failure worth recording.
func isCancellation(err error) bool {
	return goerrors.Is(err, context.Canceled)
}
