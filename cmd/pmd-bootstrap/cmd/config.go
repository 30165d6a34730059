package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
)

// configCmd writes the effective settings so they can be edited.
var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write the effective configuration as YAML.",
	Long: `Loads the configuration file (or the built-in defaults when it is missing) and writes
the result to the given path, or back to the configuration file when no path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := logger.WithName(context.Background(), "pmd-config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		target := configPath
		if len(args) > 0 {
			target = args[0]
		}

		if err = config.Save(target, cfg); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Configuration written", "path", target)

		return nil
	},
}
