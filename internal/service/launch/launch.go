package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
	"github.com/skratchdot/open-golang/open"

	"github.com/oshokin/pmd-bootstrap/internal/logger"
)

// executableMode is set on the artifact before it is opened outside Windows.
const executableMode os.FileMode = 0o755

// commNameLimits is the length of process names reported by the kernel per operating system.
//
//nolint:gochecknoglobals // Read-only lookup table.
var commNameLimits = map[string]int{
	"linux":  15,
	"darwin": 16,
}

// ErrAlreadyRunning is returned when the artifact is running and cannot be replaced.
var ErrAlreadyRunning = errors.New("executable is already running")

// Launcher opens executables.
type Launcher struct {
	// processes lists the running processes.
	processes func() ([]ps.Process, error)
	// open hands a path to the operating system "open" action.
	open func(path string) error
	// goos is the target operating system name.
	goos string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithProcessLister replaces the process table source.
func WithProcessLister(fn func() ([]ps.Process, error)) Option {
	return func(l *Launcher) {
		if fn != nil {
			l.processes = fn
		}
	}
}

// WithOpener replaces the operating system "open" action.
func WithOpener(fn func(path string) error) Option {
	return func(l *Launcher) {
		if fn != nil {
			l.open = fn
		}
	}
}

// New creates a Launcher for the current operating system.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		processes: ps.Processes,
		open:      open.Start,
		goos:      runtime.GOOS,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// CheckIdle returns ErrAlreadyRunning when a process runs the executable at path.
// A path that does not exist yet is always idle.
func (l *Launcher) CheckIdle(ctx context.Context, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	processList, err := l.processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	var (
		name          = filepath.Base(path)
		thisProcessID = os.Getpid()
	)

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !l.sameExecutable(process.Executable(), name) {
			continue
		}

		logger.WarnKV(ctx, "Executable is running", "name", name, "pid", process.Pid())

		return fmt.Errorf("%s (pid %d): %w", name, process.Pid(), ErrAlreadyRunning)
	}

	return nil
}

// Launch opens the executable at path and returns once the operating system accepted it.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	path = filepath.Clean(path)

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !l.isWindows() {
		if err := os.Chmod(path, executableMode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}

	logger.InfoKV(ctx, "Starting executable", "path", path)

	if err := l.open(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	return nil
}

// sameExecutable compares process names the way the operating system does.
// Linux and macOS report the command name cut to a fixed length.
func (l *Launcher) sameExecutable(processName, name string) bool {
	if l.isWindows() {
		return strings.EqualFold(processName, name)
	}

	if processName == name {
		return true
	}

	limit, ok := commNameLimits[l.goos]
	if !ok || len(name) <= limit {
		return false
	}

	return processName == name[:limit]
}

func (l *Launcher) isWindows() bool {
	return strings.Contains(strings.ToLower(l.goos), "windows")
}
