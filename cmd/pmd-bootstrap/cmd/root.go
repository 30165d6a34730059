package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/service/bootstrap"
	"github.com/oshokin/pmd-bootstrap/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel is the minimum level of emitted log entries.
	logLevel string
	// logFile is an optional path of a rotating log file.
	logFile string

	// rootCmd represents the base command for running the installer.
	rootCmd = &cobra.Command{
		Use:   "pmd-bootstrap",
		Short: "Install and launch Pavlov Map Downloader.",
		Long: `Checks that the required runtime is installed and offers to install it with the
package manager when it is missing. Then asks for an install directory, downloads the
executable and its version marker there, and launches it.

Settings are read from the configuration file; built-in defaults are used when it is missing.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: applyLogLevel,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &bootstrap.Options{
				ConfigPath: configPath,
				LogFile:    logFile,
			}

			return bootstrap.Run(ctx, options)
		},
	}
)

// Execute runs the pmd-bootstrap CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel sets the global log level from the --log-level flag.
func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "path to a rotating log file, overrides the configuration")

	rootCmd.AddCommand(configCmd, releaseCmd)
}
