package dependency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
)

// Runtime probes for and installs the required runtime.
type Runtime struct {
	// dependency holds the probe path and the package manager settings.
	dependency config.Dependency
	// stdout receives the package manager output.
	stdout io.Writer
	// stderr receives the package manager errors.
	stderr io.Writer
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput redirects the package manager output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runtime) {
		if stdout != nil {
			r.stdout = stdout
		}

		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// New creates a Runtime for the configured dependency.
func New(dependency config.Dependency, opts ...Option) *Runtime {
	r := &Runtime{
		dependency: dependency,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Name returns the human-readable runtime name.
func (r *Runtime) Name() string {
	return r.dependency.Name
}

// Command returns the package manager argv used by Install.
func (r *Runtime) Command() []string {
	return r.dependency.InstallCommand()
}

// Present reports whether the probe path exists.
func (r *Runtime) Present(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.dependency.Path)
	if err == nil {
		logger.DebugKV(ctx, "Dependency found", "path", r.dependency.Path)
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.DebugKV(ctx, "Dependency not found", "path", r.dependency.Path)
		return false, nil
	}

	return false, fmt.Errorf("probe %s: %w", r.dependency.Path, err)
}

// Install runs the package manager and waits for it to finish.
func (r *Runtime) Install(ctx context.Context) error {
	command := r.Command()

	logger.InfoKV(ctx, "Running package manager", "command", command)

	//nolint:gosec // The command comes from the installer configuration.
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", command[0], err)
	}

	return nil
}
