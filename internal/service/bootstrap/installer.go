package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/console"
	"github.com/oshokin/pmd-bootstrap/internal/domain/install"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/repository/marker"
)

// Messages printed by the installer.
const (
	msgDependencyFound   = "%s installation found!"
	msgDependencyMissing = "%s not found, would you like to install it?[Y/N]"
	msgInvalidCommand    = "Invalid Command!"
	msgFarewell          = "Terminating program... I'll be back!"
	msgRerun             = "Run the installer again once the installation has finished."
	msgInstallPath       = "Set install path for %s"
	msgPathPrompt        = "> "
	msgInvalidPath       = "Invalid path!"
	msgAttempting        = "Attempting to install at %s"
	msgDirectoryCreated  = "File Path Created, downloading file"
)

// directoryPermissions is the mode of a created install directory.
const directoryPermissions os.FileMode = 0o755

// errMissingCapability is returned when the installer is built without a required capability.
var errMissingCapability = errors.New("installer capability is not set")

// Outcome is how an installer run ended.
type Outcome int

const (
	// OutcomeNone means the run did not reach a terminal step.
	OutcomeNone Outcome = iota
	// OutcomeDeclined means the user refused to install the missing dependency.
	OutcomeDeclined
	// OutcomeDependencyInstalled means the package manager installed the dependency.
	OutcomeDependencyInstalled
	// OutcomeLaunched means the artifact was downloaded and launched.
	OutcomeLaunched
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeDeclined:
		return "declined"
	case OutcomeDependencyInstalled:
		return "dependency-installed"
	case OutcomeLaunched:
		return "launched"
	default:
		return "none"
	}
}

// Dependency probes for and installs the required runtime.
type Dependency interface {
	Name() string
	Present(ctx context.Context) (bool, error)
	Install(ctx context.Context) error
}

// Directories creates the install directory.
type Directories interface {
	Ensure(dir string) error
}

// Fetcher downloads a single file and returns once it is fully written.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, destination string) (int64, error)
}

// Launcher guards and opens the artifact.
type Launcher interface {
	CheckIdle(ctx context.Context, path string) error
	Launch(ctx context.Context, path string) error
}

// Capabilities are the platform services the installer flow depends on.
type Capabilities struct {
	// Prompter talks to the user.
	Prompter console.Prompter
	// Dependency is the required runtime.
	Dependency Dependency
	// Directories creates the install directory; local filesystem when nil.
	Directories Directories
	// Fetcher downloads the artifact and the version marker.
	Fetcher Fetcher
	// Launcher opens the artifact.
	Launcher Launcher
	// Markers opens the version marker at a path; file repository when nil.
	Markers func(path string) marker.Repository
	// Sleep waits for the exit pause; context-aware timer when nil.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Installer runs the installer flow as an explicit state machine.
type Installer struct {
	caps Capabilities

	// productName is the artifact name shown in prompts.
	productName string
	// artifactURL is the source of the companion executable.
	artifactURL string
	// versionURL is the source of the version marker.
	versionURL string
	// exitPause is how long the console stays open before exiting.
	exitPause time.Duration

	// plan is set once the install path is known.
	plan *install.Plan
	// marker is the downloaded version marker, if readable.
	marker *install.Marker
	// outcome is how the run ended.
	outcome Outcome
}

// NewInstaller builds an installer from the configuration and capabilities.
func NewInstaller(cfg *config.Config, caps Capabilities) (*Installer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config: %w", errMissingCapability)
	}

	if caps.Prompter == nil || caps.Dependency == nil || caps.Fetcher == nil || caps.Launcher == nil {
		return nil, errMissingCapability
	}

	if caps.Directories == nil {
		caps.Directories = localDirectories{}
	}

	if caps.Markers == nil {
		caps.Markers = func(path string) marker.Repository {
			return marker.NewFileRepository(path)
		}
	}

	if caps.Sleep == nil {
		caps.Sleep = sleep
	}

	return &Installer{
		caps:        caps,
		productName: cfg.ProductName,
		artifactURL: cfg.ArtifactURL,
		versionURL:  cfg.VersionURL,
		exitPause:   cfg.ExitPause,
	}, nil
}

// Plan returns the destinations of the run, nil before the install path is known.
func (i *Installer) Plan() *install.Plan {
	return i.plan
}

// Marker returns the downloaded version marker, nil if none was read.
func (i *Installer) Marker() *install.Marker {
	return i.marker
}

// Run walks the flow from the dependency check to a terminal step.
func (i *Installer) Run(ctx context.Context) (Outcome, error) {
	step := install.StepCheckDependency

	for step != install.StepDone {
		logger.DebugKV(ctx, "Entering step", "step", step.String())

		next, err := i.handle(ctx, step)
		if err != nil {
			return i.outcome, fmt.Errorf("%s: %w", step, err)
		}

		step = next
	}

	return i.outcome, nil
}

// handle executes one step and returns the next one.
func (i *Installer) handle(ctx context.Context, step install.Step) (install.Step, error) {
	switch step {
	case install.StepCheckDependency:
		return i.checkDependency(ctx)
	case install.StepPromptDependencyInstall:
		return i.promptDependencyInstall(ctx)
	case install.StepPromptInstallPath:
		return i.promptInstallPath(ctx)
	case install.StepCreateDirectory:
		return i.createDirectory(ctx)
	case install.StepDownloadArtifact:
		return i.downloadArtifact(ctx)
	case install.StepDownloadVersionMarker:
		return i.downloadVersionMarker(ctx)
	case install.StepLaunchArtifact:
		return i.launchArtifact(ctx)
	default:
		return install.StepDone, nil
	}
}

func (i *Installer) checkDependency(ctx context.Context) (install.Step, error) {
	present, err := i.caps.Dependency.Present(ctx)
	if err != nil {
		return install.StepDone, err
	}

	if !present {
		return install.StepPromptDependencyInstall, nil
	}

	i.caps.Prompter.Say(fmt.Sprintf(msgDependencyFound, i.caps.Dependency.Name()))

	return install.StepPromptInstallPath, nil
}

func (i *Installer) promptDependencyInstall(ctx context.Context) (install.Step, error) {
	reply, err := i.caps.Prompter.Ask(ctx, fmt.Sprintf(msgDependencyMissing, i.caps.Dependency.Name()))
	if err != nil {
		return install.StepDone, err
	}

	switch install.ParseAnswer(reply) {
	case install.AnswerYes:
		if err = i.caps.Dependency.Install(ctx); err != nil {
			return install.StepDone, fmt.Errorf("install dependency: %w", err)
		}

		i.outcome = OutcomeDependencyInstalled
		i.caps.Prompter.Say(msgRerun)

		return install.StepDone, nil
	case install.AnswerNo:
		i.outcome = OutcomeDeclined
		i.caps.Prompter.Say(msgFarewell)

		return install.StepDone, i.pause(ctx)
	default:
		i.caps.Prompter.Say(msgInvalidCommand)

		return install.StepPromptDependencyInstall, nil
	}
}

func (i *Installer) promptInstallPath(ctx context.Context) (install.Step, error) {
	i.caps.Prompter.Say(fmt.Sprintf(msgInstallPath, i.productName))

	directory, err := i.caps.Prompter.Ask(ctx, msgPathPrompt)
	if err != nil {
		return install.StepDone, err
	}

	plan, err := install.NewPlan(directory, i.artifactURL, i.versionURL)
	if errors.Is(err, install.ErrEmptyDirectory) {
		i.caps.Prompter.Say(msgInvalidPath)

		return install.StepPromptInstallPath, nil
	}

	if err != nil {
		return install.StepDone, err
	}

	i.plan = plan
	i.caps.Prompter.Say(fmt.Sprintf(msgAttempting, plan.Directory))

	if err = i.caps.Launcher.CheckIdle(ctx, plan.ArtifactPath); err != nil {
		return install.StepDone, err
	}

	return install.StepCreateDirectory, nil
}

func (i *Installer) createDirectory(ctx context.Context) (install.Step, error) {
	if err := i.caps.Directories.Ensure(i.plan.Directory); err != nil {
		logger.ErrorKV(ctx, "Unable to create install directory", "path", i.plan.Directory, "error", err)

		return install.StepDone, fmt.Errorf("create install directory: %w", err)
	}

	i.caps.Prompter.Say(msgDirectoryCreated)

	return install.StepDownloadArtifact, nil
}

func (i *Installer) downloadArtifact(ctx context.Context) (install.Step, error) {
	written, err := i.caps.Fetcher.Fetch(ctx, i.plan.ArtifactURL, i.plan.ArtifactPath)
	if err != nil {
		return install.StepDone, fmt.Errorf("download artifact: %w", err)
	}

	logger.InfoKV(ctx, "Artifact downloaded", "path", i.plan.ArtifactPath, "bytes", written)

	return install.StepDownloadVersionMarker, nil
}

func (i *Installer) downloadVersionMarker(ctx context.Context) (install.Step, error) {
	repository := i.caps.Markers(i.plan.VersionPath)

	previous, err := repository.Load(ctx)
	if err != nil && !errors.Is(err, marker.ErrNotFound) {
		logger.WarnKV(ctx, "Ignoring unreadable version marker", "path", i.plan.VersionPath, "error", err)
	}

	if _, err = i.caps.Fetcher.Fetch(ctx, i.plan.VersionURL, i.plan.VersionPath); err != nil {
		return install.StepDone, fmt.Errorf("download version marker: %w", err)
	}

	current, err := repository.Load(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Downloaded version marker is unreadable", "path", i.plan.VersionPath, "error", err)

		return install.StepLaunchArtifact, nil
	}

	i.marker = current

	logger.InfoKV(ctx, "Version marker downloaded",
		"version", current.String(),
		"previous", previous.String(),
		"change", install.Compare(previous, current).String())

	return install.StepLaunchArtifact, nil
}

func (i *Installer) launchArtifact(ctx context.Context) (install.Step, error) {
	if err := i.caps.Launcher.Launch(ctx, i.plan.ArtifactPath); err != nil {
		return install.StepDone, fmt.Errorf("launch artifact: %w", err)
	}

	i.outcome = OutcomeLaunched

	return install.StepDone, i.pause(ctx)
}

// pause keeps an interactive console open for the configured time.
func (i *Installer) pause(ctx context.Context) error {
	if i.exitPause <= 0 || !i.caps.Prompter.Interactive() {
		return nil
	}

	return i.caps.Sleep(ctx, i.exitPause)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// localDirectories creates directories on the local filesystem.
type localDirectories struct{}

// Ensure creates dir with its parents and confirms it is a directory.
func (localDirectories) Ensure(dir string) error {
	if err := os.MkdirAll(dir, directoryPermissions); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, os.ErrExist)
	}

	return nil
}
