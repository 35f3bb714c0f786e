package cli

import (
	"context"
	"fmt"

	"resumelens/internal/analysis"
	"resumelens/internal/client"
	"resumelens/internal/common"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
	"resumelens/internal/pdf"
	"resumelens/internal/types"
	"resumelens/internal/watch"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file.pdf]",
	Short: "Analyze a PDF resume",
	Long: `Analyze a PDF resume using the remote analysis service.
The command extracts the resume text from the PDF, submits it for
analysis, and prints the scored result with strengths, suggestions and
formatting feedback.

With --questions, interview questions are generated from the analysis
and printed after the result. With --watch, the command keeps running
and re-analyzes the file whenever it changes on disk.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig        common.CommandConfig
	analyzeWithQuestions bool
	analyzeWatch         bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().BoolVarP(&analyzeWithQuestions, "questions", "q", false, "Also generate interview questions from the analysis")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "Re-run the analysis when the file changes")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, shutdown, err := newObservability(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdown()
	metrics := om.GetMetrics()

	svc := client.New(cfg.Service, logger)

	runOnce := func(ctx context.Context) error {
		return analyzeOnce(ctx, logger, svc, metrics, om, args[0], cfg.App.MaxFileSize)
	}

	if err := runOnce(cmd.Context()); err != nil {
		// Watch mode stays alive on failures so a fix to the file re-runs.
		if !analyzeWatch {
			return fmt.Errorf("failed to analyze resume: %w", err)
		}
		logger.LogError(err, "Analysis failed, waiting for file changes")
	} else {
		logger.Info("Resume analysis completed successfully")
	}

	if !analyzeWatch {
		return nil
	}

	watcher, err := watch.NewFileWatcher(args[0], cfg.Watch.DebounceDelay, func() {
		if err := runOnce(cmd.Context()); err != nil {
			logger.LogError(err, "Re-analysis failed")
		} else {
			logger.Info("Resume re-analyzed after file change")
		}
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			logger.Warn("Failed to stop file watcher", "error", err)
		}
	}()

	<-cmd.Context().Done()
	return nil
}

// analyzeOnce runs one extract-analyze-output cycle, with questions
// appended when requested.
func analyzeOnce(ctx context.Context, logger *errors.Logger, svc *client.Client, metrics *observability.Metrics, om *observability.ObservabilityManager, resumePath string, maxFileSize int64) error {
	var questions *types.QuestionsResult

	extract := func(path string) (string, error) {
		return extractResumeText(logger, path, maxFileSize)
	}

	logDetails := func(resumeText string, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", len(resumeText),
			"output_format", cmdCfg.OutputFormat)
	}

	operation := func(ctx context.Context, resumeText string) (*types.AnalysisResult, error) {
		session := analysis.NewSession(svc, logger, resumeText)

		var result *types.AnalysisResult
		err := metrics.TrackServiceOperation(ctx, "analyze", func(ctx context.Context) error {
			var opErr error
			result, opErr = session.AnalyzeResume(ctx)
			return opErr
		}, om)
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", err == nil, om)
		if err != nil {
			return nil, err
		}

		if analyzeWithQuestions {
			var qErr error
			err = metrics.TrackServiceOperation(ctx, "generate_questions", func(ctx context.Context) error {
				questions, qErr = session.GenerateQuestions(ctx)
				return qErr
			}, om)
			metrics.RecordBusinessMetric(ctx, "questions_generated", err == nil, om)
			if err != nil {
				return nil, err
			}
		}

		return result, nil
	}

	err := common.RunResumeCommand(ctx, logger, analyzeConfig, resumePath, extract, operation, logDetails)
	if err != nil {
		return err
	}

	// Questions go to stdout so they never clobber the analysis output file.
	if questions != nil {
		outputHandler := common.NewOutputHandler(logger)
		return outputHandler.HandleOutput(questions, common.CommandConfig{
			OutputFormat: analyzeConfig.OutputFormat,
		})
	}
	return nil
}

// extractResumeText reads a PDF resume from disk, validates it and returns
// its plain text.
func extractResumeText(logger *errors.Logger, path string, maxFileSize int64) (string, error) {
	fp := common.NewFileProcessor(logger)
	data, err := fp.ReadBytes(path)
	if err != nil {
		return "", err
	}

	if err := pdf.Validate(path, data, maxFileSize); err != nil {
		return "", err
	}

	return pdf.ExtractText(data)
}
