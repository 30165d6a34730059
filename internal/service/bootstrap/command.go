package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/console"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/service/dependency"
	"github.com/oshokin/pmd-bootstrap/internal/service/fetch"
	"github.com/oshokin/pmd-bootstrap/internal/service/launch"
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// LogFile overrides the log file from the settings when not empty.
	LogFile string
	// Prompter overrides the console; stdin/stdout when nil.
	Prompter console.Prompter
}

// Run executes the installer flow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pmd-bootstrap")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logFile := cfg.LogFile
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}

	if logFile != "" {
		closer, attachErr := logger.AttachFile(logFile)
		if attachErr != nil {
			return fmt.Errorf("open log file: %w", attachErr)
		}

		defer func() {
			_ = closer.Close()
		}()

		// Pick up the logger that now writes to the file as well.
		ctx = logger.WithName(logger.ToContext(ctx, logger.Logger()), "pmd-bootstrap")
	}

	prompter := opts.Prompter
	if prompter == nil {
		prompter = console.New(os.Stdin, os.Stdout)

		defer func() {
			_ = prompter.Close()
		}()
	}

	installer, err := NewInstaller(cfg, Capabilities{
		Prompter:   prompter,
		Dependency: dependency.New(cfg.Dependency),
		Fetcher: fetch.New(
			fetch.WithTimeout(cfg.DownloadTimeout),
			fetch.WithProgress(progressLogger(ctx)),
		),
		Launcher: launch.New(),
	})
	if err != nil {
		return err
	}

	outcome, err := installer.Run(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Installer run failed", "error", err)
		return err
	}

	logger.InfoKV(ctx, "Installer completed", "outcome", outcome.String())

	return nil
}
