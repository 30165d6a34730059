package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pmd-bootstrap/internal/service/release"
)

// outputDir is where release files are written.
var outputDir string

// releaseCmd prepares the files published for a new release.
var releaseCmd = &cobra.Command{
	Use:   "release <version> [artifact]",
	Short: "Write the version marker for publishing a release.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &release.Options{
			ConfigPath: configPath,
			Version:    args[0],
			OutputDir:  outputDir,
		}

		if len(args) > 1 {
			options.ArtifactPath = args[1]
		}

		return release.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	releaseCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory the version marker is written to")
}
