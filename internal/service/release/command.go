package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/oshokin/pmd-bootstrap/internal/config"
	"github.com/oshokin/pmd-bootstrap/internal/domain/install"
	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/repository/marker"
)

// Options contains inputs for the release entry point.
type Options struct {
	// ConfigPath is an optional path to the installer settings (defaults to pmd-bootstrap.yaml).
	ConfigPath string
	// Version is the release version written into the marker.
	Version string
	// ArtifactPath is the built executable; defaults to the artifact URL file name in OutputDir.
	ArtifactPath string
	// OutputDir is where the marker is written; defaults to the current directory.
	OutputDir string
}

// publisher writes the files a release consists of.
// It is unexported; callers should use Run, which encapsulates setup and validation.
type publisher struct {
	// cfg holds the download URLs the release is published under.
	cfg *config.Config
	// version is the validated release version.
	version *goversion.Version
	// raw is the version text as given on the command line.
	raw string
	// artifactPath is the executable to upload.
	artifactPath string
	// markerPath is where the version marker is written.
	markerPath string
}

var (
	// errVersionRequired is returned when no release version is given.
	errVersionRequired = errors.New("release version must be provided")
	// errArtifactIsDirectory is returned when the artifact path names a directory.
	errArtifactIsDirectory = errors.New("artifact is a directory")
)

// Run executes the release workflow.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "pmd-release")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	pub, err := newPublisher(cfg, opts)
	if err != nil {
		return fmt.Errorf("initialize release: %w", err)
	}

	ctx = logger.WithKV(ctx, "version", pub.raw)

	if err = pub.Run(ctx); err != nil {
		return fmt.Errorf("release failed: %w", err)
	}

	logger.Info(ctx, "Release prepared successfully")

	return nil
}

// newPublisher validates the inputs and resolves file locations.
func newPublisher(cfg *config.Config, opts *Options) (*publisher, error) {
	raw := strings.TrimSpace(opts.Version)
	if raw == "" {
		return nil, errVersionRequired
	}

	parsed, err := goversion.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", raw, err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	markerName, err := install.FileNameFromURL(cfg.VersionURL)
	if err != nil {
		return nil, fmt.Errorf("version marker: %w", err)
	}

	artifactPath := opts.ArtifactPath
	if artifactPath == "" {
		artifactName, nameErr := install.FileNameFromURL(cfg.ArtifactURL)
		if nameErr != nil {
			return nil, fmt.Errorf("artifact: %w", nameErr)
		}

		artifactPath = filepath.Join(outputDir, artifactName)
	}

	return &publisher{
		cfg:          cfg,
		version:      parsed,
		raw:          raw,
		artifactPath: filepath.Clean(artifactPath),
		markerPath:   filepath.Join(outputDir, markerName),
	}, nil
}

// Run checks the artifact and writes the version marker next to it.
func (p *publisher) Run(ctx context.Context) error {
	if err := p.checkArtifact(); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Writing version marker", "path", p.markerPath, "version", p.version.String())

	repository := marker.NewFileRepository(p.markerPath)
	if err := repository.Save(ctx, install.ParseMarker(p.raw)); err != nil {
		return err
	}

	p.printNextSteps(ctx)

	return nil
}

// checkArtifact makes sure the executable to publish exists.
func (p *publisher) checkArtifact() error {
	info, err := os.Stat(p.artifactPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", p.artifactPath, os.ErrNotExist)
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", p.artifactPath, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s: %w", p.artifactPath, errArtifactIsDirectory)
	}

	return nil
}

// printNextSteps logs where each file has to be uploaded.
func (p *publisher) printNextSteps(ctx context.Context) {
	var builder strings.Builder

	builder.WriteString("You should upload the following files:\n")
	builder.WriteString(p.artifactPath)
	builder.WriteString(" -> ")
	builder.WriteString(p.cfg.ArtifactURL)
	builder.WriteString(",\n")
	builder.WriteString(p.markerPath)
	builder.WriteString(" -> ")
	builder.WriteString(p.cfg.VersionURL)

	logger.Info(ctx, builder.String())
}
