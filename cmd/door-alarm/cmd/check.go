package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/door-alarm/internal/service/checker"
)

// checkTrace logs the serial traffic of the check.
var checkTrace bool

// checkCmd runs a single modem online check.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the modem once and report its status.",
	Long: `Powers the modem on, switches it to PDU mode, checks the SIM and powers
it off again. Exits with a non-zero status when the check fails.

Do not run this while the controller is running: both talk to the same port.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return checker.Run(ctx, &checker.Options{
			ConfigPath: configPath,
			Trace:      checkTrace,
			Out:        cmd.OutOrStdout(),
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkCmd.Flags().BoolVarP(&checkTrace, "trace", "t", false, "log serial traffic")
}
