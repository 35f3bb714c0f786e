package cli

import (
	"context"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "A CLI tool for analyzing PDF resumes",
	Long: `Resumelens analyzes PDF resumes against a remote analysis service.
It extracts the resume text, submits it for scoring and feedback, can
generate interview questions from the results, and renders pages of the
PDF for inspection.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newObservability builds the observability manager for a command run and
// returns a shutdown function to flush exporters on exit.
func newObservability(cmd *cobra.Command) (*observability.ObservabilityManager, func(), error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	obsConfig := observability.GetObservabilityConfig(cfg, Version)
	om, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		return nil, nil, err
	}

	shutdown := func() {
		if err := om.Shutdown(context.Background()); err != nil {
			logger.Warn("Observability shutdown failed", "error", err)
		}
	}
	return om, shutdown, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
