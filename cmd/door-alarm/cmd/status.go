package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/service/status"
)

var (
	// statusPath overrides the snapshot path for the status command.
	statusPath string
	// statusAddress overrides the health endpoint for the status command.
	statusAddress string
)

// statusCmd prints the last snapshot and the live health.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the last alarm state.",
	Long: `Prints the state last written by the controller and when it was entered.
When a health address is configured or given, the running controller is
probed as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return status.Run(ctx, &status.Options{
			ConfigPath:    configPath,
			StatusFile:    statusPath,
			HealthAddress: statusAddress,
			Timeout:       config.DefaultTimeout,
			Out:           cmd.OutOrStdout(),
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	statusCmd.Flags().StringVar(&statusPath, "status-file", "", "status snapshot path (overrides config)")
	statusCmd.Flags().StringVar(&statusAddress, "health-address", "", "health endpoint to probe (overrides config)")
}
