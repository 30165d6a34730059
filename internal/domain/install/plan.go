package install

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyDirectory is returned when no install directory was given.
	ErrEmptyDirectory = errors.New("install directory is empty")
	// errNoFileName is returned when a download URL does not end with a file name.
	errNoFileName = errors.New("url does not name a file")
)

// Plan fixes the destinations of a single installer run.
type Plan struct {
	// Directory is the install directory as entered by the user, cleaned.
	Directory string
	// ArtifactURL is the source of the companion executable.
	ArtifactURL string
	// ArtifactPath is where the companion executable is written.
	ArtifactPath string
	// VersionURL is the source of the version marker.
	VersionURL string
	// VersionPath is where the version marker is written.
	VersionPath string
}

// NewPlan joins the file names of both URLs onto the install directory.
func NewPlan(directory, artifactURL, versionURL string) (*Plan, error) {
	directory = strings.TrimSpace(directory)
	if directory == "" {
		return nil, ErrEmptyDirectory
	}

	directory = filepath.Clean(directory)

	artifactName, err := FileNameFromURL(artifactURL)
	if err != nil {
		return nil, fmt.Errorf("artifact: %w", err)
	}

	versionName, err := FileNameFromURL(versionURL)
	if err != nil {
		return nil, fmt.Errorf("version marker: %w", err)
	}

	return &Plan{
		Directory:    directory,
		ArtifactURL:  artifactURL,
		ArtifactPath: filepath.Join(directory, artifactName),
		VersionURL:   versionURL,
		VersionPath:  filepath.Join(directory, versionName),
	}, nil
}

// FileNameFromURL returns the last element of the URL path.
func FileNameFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || strings.HasSuffix(parsed.Path, "/") {
		return "", fmt.Errorf("%q: %w", rawURL, errNoFileName)
	}

	return name, nil
}
