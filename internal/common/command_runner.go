package common

import (
	"context"

	"resumelens/internal/errors"
)

// ExtractTextFunc turns a resume file path into plain text.
type ExtractTextFunc func(path string) (string, error)

// ServiceOperationFunc is a generic signature for any remote operation on
// extracted resume text.
type ServiceOperationFunc[Output any] func(ctx context.Context, resumeText string) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(resumeText string, cfg CommandConfig)

// RunResumeCommand encapsulates the common logic of file-based CLI
// commands: extract, run the remote operation, format and write the result.
func RunResumeCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumePath string,
	extract ExtractTextFunc,
	operation ServiceOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	outputHandler := NewOutputHandler(logger)

	resumeText, err := extract(resumePath)
	if err != nil {
		return err
	}

	logDetails(resumeText, cmdConfig)

	result, err := operation(ctx, resumeText)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
