package common

import (
	"fmt"
	"io"
	"os"

	"resumelens/internal/errors"
	"resumelens/internal/formatters"
)

// CommandConfig holds the output destination and format shared by the
// resume commands.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler renders analysis results and question lists through the
// formatter registry and delivers them to a file or stdout.
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates an output handler backed by the global
// formatter registry.
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// HandleOutput renders data in the requested format and delivers it. The
// destination is validated before formatting so a bad --output path fails
// without wasted work.
func (oh *OutputHandler) HandleOutput(data any, cmdConfig CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	rendered, err := oh.registry.Format(data, cmdConfig.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", cmdConfig.OutputFormat), err)
	}

	return oh.deliver(rendered, cmdConfig)
}

// deliver writes rendered output to the configured file, or to stdout when
// no file is set.
func (oh *OutputHandler) deliver(rendered string, cmdConfig CommandConfig) error {
	if cmdConfig.OutputFile == "" {
		fmt.Fprint(oh.stdout, rendered)
		return nil
	}

	if err := oh.fileProcessor.WriteFile(cmdConfig.OutputFile, rendered); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully",
		"file", cmdConfig.OutputFile, "format", cmdConfig.OutputFormat)
	return nil
}

// GetSupportedFormats returns all supported output formats.
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
