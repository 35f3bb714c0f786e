package cli

import (
	"context"
	"fmt"

	"resumelens/internal/analysis"
	"resumelens/internal/client"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [resume-file.pdf]",
	Short: "Generate interview questions from a PDF resume",
	Long: `Generate interview questions for a PDF resume using the remote
analysis service. With --with-analysis, the resume is analyzed first and
the analysis is sent along as context, which produces questions targeted
at the resume's weak spots.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if questionsConfig.OutputFormat == "" {
			questionsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(questionsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runQuestions,
}

var (
	questionsConfig       common.CommandConfig
	questionsWithAnalysis bool
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	questionsCmd.Flags().StringVar(&questionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	questionsCmd.Flags().BoolVar(&questionsWithAnalysis, "with-analysis", false, "Analyze the resume first and use the result as context")

	_ = questionsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, shutdown, err := newObservability(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdown()
	metrics := om.GetMetrics()

	svc := client.New(cfg.Service, logger)

	extract := func(path string) (string, error) {
		return extractResumeText(logger, path, cfg.App.MaxFileSize)
	}

	logDetails := func(resumeText string, cmdCfg common.CommandConfig) {
		logger.Info("Starting question generation",
			"resume_chars", len(resumeText),
			"with_analysis", questionsWithAnalysis,
			"output_format", cmdCfg.OutputFormat)
	}

	operation := func(ctx context.Context, resumeText string) (*types.QuestionsResult, error) {
		session := analysis.NewSession(svc, logger, resumeText)

		if questionsWithAnalysis {
			err := metrics.TrackServiceOperation(ctx, "analyze", func(ctx context.Context) error {
				_, opErr := session.AnalyzeResume(ctx)
				return opErr
			}, om)
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", err == nil, om)
			if err != nil {
				return nil, err
			}
		}

		var result *types.QuestionsResult
		err := metrics.TrackServiceOperation(ctx, "generate_questions", func(ctx context.Context) error {
			var opErr error
			result, opErr = session.GenerateQuestions(ctx)
			return opErr
		}, om)
		metrics.RecordBusinessMetric(ctx, "questions_generated", err == nil, om)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	err = common.RunResumeCommand(cmd.Context(), logger, questionsConfig, args[0], extract, operation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}
