package release

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pmd-bootstrap/internal/config"
)

// TestRun_WritesMarker verifies the marker is written next to an existing artifact.
func TestRun_WritesMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	artifact := filepath.Join(dir, "DownloadPavlovMapsFromModIo.exe")
	require.NoError(t, os.WriteFile(artifact, []byte("MZ"), 0o600))

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		Version:    " 6.1.0 ",
		OutputDir:  dir,
	})
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "version.txt"))
	require.NoError(t, err)
	require.Equal(t, "6.1.0\n", string(contents))
}

// TestRun_UsesConfiguredMarkerName verifies the marker name follows the configured URL.
func TestRun_UsesConfiguredMarkerName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.VersionURL = "https://example.com/pmd/latest.txt"

	cfgPath := filepath.Join(dir, "pmd-bootstrap.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	artifact := filepath.Join(dir, "pmd.exe")
	require.NoError(t, os.WriteFile(artifact, []byte("MZ"), 0o600))

	err := Run(context.Background(), &Options{
		ConfigPath:   cfgPath,
		Version:      "v7.0.0-beta.1",
		ArtifactPath: artifact,
		OutputDir:    dir,
	})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "latest.txt"))
	require.NoFileExists(t, filepath.Join(dir, "version.txt"))
}

// TestRun_RejectsBadInput verifies invalid versions and missing artifacts write nothing.
func TestRun_RejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		artifact bool
		wantErr  error
	}{
		{name: "empty version", version: " ", artifact: true, wantErr: errVersionRequired},
		{name: "malformed version", version: "six", artifact: true},
		{name: "missing artifact", version: "6.1.0", wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.artifact {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "DownloadPavlovMapsFromModIo.exe"), nil, 0o600))
			}

			err := Run(context.Background(), &Options{
				ConfigPath: filepath.Join(dir, "missing.yaml"),
				Version:    tt.version,
				OutputDir:  dir,
			})
			require.Error(t, err)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			require.NoFileExists(t, filepath.Join(dir, "version.txt"))
		})
	}
}

// TestRun_RejectsDirectoryArtifact verifies a directory cannot be published.
func TestRun_RejectsDirectoryArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := Run(context.Background(), &Options{
		ConfigPath:   filepath.Join(dir, "missing.yaml"),
		Version:      "6.1.0",
		ArtifactPath: dir,
		OutputDir:    dir,
	})
	require.ErrorIs(t, err, errArtifactIsDirectory)
}
