package cli

import (
	"fmt"

	"resumelens/internal/client"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the analysis service health",
	Long: `Probe the remote analysis service's health endpoint and report its
status along with the client's circuit breaker state.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc := client.New(cfg.Service, logger)

	status, err := svc.Health(cmd.Context())
	if err != nil {
		fmt.Printf("Service:         %s\n", cfg.Service.BaseURL)
		fmt.Printf("Status:          unreachable\n")
		fmt.Printf("Circuit breaker: %s\n", svc.BreakerState())
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Printf("Service:         %s\n", cfg.Service.BaseURL)
	fmt.Printf("Status:          %s\n", status.Status)
	if status.Timestamp != "" {
		fmt.Printf("Timestamp:       %s\n", status.Timestamp)
	}
	fmt.Printf("Circuit breaker: %s\n", svc.BreakerState())
	return nil
}
