package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/service/firmware"
	"github.com/oshokin/door-alarm/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// healthAddress overrides the configured health listen address.
	healthAddress string
	// statusFile overrides the configured status snapshot path.
	statusFile string
	// trace logs the serial traffic.
	trace bool

	// rootCmd represents the controller process.
	rootCmd = &cobra.Command{
		Use:   "door-alarm [config]",
		Short: "Run the door alarm controller.",
		Long: `Runs the door alarm controller on a Linux board.

The button arms and disarms the alarm, the reed switch watches the door and
a GSM modem sends an SMS when the door opens while armed. Two LEDs show the
current state. The modem is checked before arming and rechecked with a
growing interval while it fails.

The settings file can be given as an argument or with --config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return firmware.Run(ctx, &firmware.Options{
				ConfigPath:    configFromArgs(args),
				HealthAddress: healthAddress,
				StatusFile:    statusFile,
				Trace:         trace,
			})
		},
	}
)

// Execute runs the door-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

func configFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return configPath
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.Flags().StringVar(&healthAddress, "health-address", "", "health endpoint listen address (overrides config)")
	rootCmd.Flags().StringVar(&statusFile, "status-file", "", "status snapshot path (overrides config)")
	rootCmd.Flags().BoolVarP(&trace, "trace", "t", false, "log serial traffic")

	rootCmd.AddCommand(checkCmd, statusCmd)
}
