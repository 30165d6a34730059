package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Dependency describes the runtime the companion executable needs and how to install it.
type Dependency struct {
	// Name is the human-readable runtime name used in prompts.
	Name string `yaml:"name"`
	// Path is the filesystem location whose existence proves the runtime is installed.
	Path string `yaml:"path"`
	// PackageManager is the executable used to install the runtime.
	PackageManager string `yaml:"package_manager"`
	// PackageID is the package identifier passed to the package manager.
	PackageID string `yaml:"package_id"`
	// InstallArgs are the package manager arguments; PackagePlaceholder is replaced by PackageID.
	InstallArgs []string `yaml:"install_args"`
}

// Config holds the installer settings.
type Config struct {
	// ProductName is the companion executable name shown in prompts.
	ProductName string `yaml:"product_name"`
	// Dependency describes the required runtime.
	Dependency Dependency `yaml:"dependency"`
	// ArtifactURL is where the companion executable is downloaded from.
	ArtifactURL string `yaml:"artifact_url"`
	// VersionURL is where the plaintext version marker is downloaded from.
	VersionURL string `yaml:"version_url"`
	// DownloadTimeout bounds every single file transfer.
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	// ExitPause is how long the console stays open before the installer exits.
	ExitPause time.Duration `yaml:"exit_pause"`
	// LogFile is an optional path of a rotating log file.
	LogFile string `yaml:"log_file"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "pmd-bootstrap.yaml"

	// PackagePlaceholder is replaced by the package identifier in install arguments.
	PackagePlaceholder = "{package}"

	// DefaultDownloadTimeout is the default bound for a single file transfer.
	DefaultDownloadTimeout = 10 * time.Minute

	// DefaultExitPause is the default delay before the console closes.
	DefaultExitPause = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	defaultReleaseURL = "https://github.com/RainOrigami/DownloadPavlovMapsFromModIo/releases/download/v6/"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProductNameRequired is returned when the product name is missing.
	errProductNameRequired = errors.New("product name must be provided")
	// errDependencyPathRequired is returned when the runtime probe path is missing.
	errDependencyPathRequired = errors.New("dependency path must be provided")
	// errPackageManagerRequired is returned when no package manager is configured.
	errPackageManagerRequired = errors.New("package manager must be provided")
	// errPackageIDRequired is returned when no package identifier is configured.
	errPackageIDRequired = errors.New("package id must be provided")
	// errPlaceholderMissing is returned when install arguments never mention the package.
	errPlaceholderMissing = errors.New("install arguments must contain " + PackagePlaceholder)
	// errURLRequired is returned when a download URL is missing.
	errURLRequired = errors.New("download url must be provided")
	// errURLScheme is returned for download URLs that are not http(s).
	errURLScheme = errors.New("download url must use http or https")
	// errNegativeDuration is returned for negative timeouts and pauses.
	errNegativeDuration = errors.New("duration must not be negative")
)

// Default returns the settings of the published Pavlov Map Downloader release.
func Default() *Config {
	return &Config{
		Dependency: Dependency{
			Name:           "Dotnet 6 Framwork",
			Path:           "C:/Program Files/dotnet",
			PackageManager: "winget",
			PackageID:      "Microsoft.DotNet.DesktopRuntime.6",
			InstallArgs:    []string{"install", PackagePlaceholder},
		},
		ProductName:     "Pavlov Map Downloader",
		ArtifactURL:     defaultReleaseURL + "DownloadPavlovMapsFromModIo.exe",
		VersionURL:      defaultReleaseURL + "version.txt",
		DownloadTimeout: DefaultDownloadTimeout,
		ExitPause:       DefaultExitPause,
	}
}

// Load reads configuration from the provided path on top of Default.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(settings.ProductName) == "" {
		return errProductNameRequired
	}

	if err := validateDependency(&settings.Dependency); err != nil {
		return err
	}

	if err := validateURL(settings.ArtifactURL); err != nil {
		return fmt.Errorf("artifact url: %w", err)
	}

	if err := validateURL(settings.VersionURL); err != nil {
		return fmt.Errorf("version url: %w", err)
	}

	if settings.DownloadTimeout < 0 || settings.ExitPause < 0 {
		return errNegativeDuration
	}

	// Set default timeout if not specified
	if settings.DownloadTimeout == 0 {
		settings.DownloadTimeout = DefaultDownloadTimeout
	}

	return nil
}

// InstallCommand returns the package manager argv with the package identifier substituted.
func (d *Dependency) InstallCommand() []string {
	command := make([]string, 0, len(d.InstallArgs)+1)
	command = append(command, d.PackageManager)

	for _, arg := range d.InstallArgs {
		command = append(command, strings.ReplaceAll(arg, PackagePlaceholder, d.PackageID))
	}

	return command
}

func validateDependency(d *Dependency) error {
	if strings.TrimSpace(d.Path) == "" {
		return errDependencyPathRequired
	}

	if strings.TrimSpace(d.PackageManager) == "" {
		return errPackageManagerRequired
	}

	if strings.TrimSpace(d.PackageID) == "" {
		return errPackageIDRequired
	}

	hasPlaceholder := slices.ContainsFunc(d.InstallArgs, func(arg string) bool {
		return strings.Contains(arg, PackagePlaceholder)
	})
	if !hasPlaceholder {
		return errPlaceholderMissing
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errURLRequired
	}

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid download url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: %w", raw, errURLScheme)
	}

	return nil
}
