package marker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pmd-bootstrap/internal/domain/install"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "version.txt"))

	m, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, m)
}

// TestFileRepository_Empty verifies blank markers are rejected both ways.
func TestFileRepository_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "version.txt")
	require.NoError(t, os.WriteFile(path, []byte(" \n"), filePermissions))

	repo := NewFileRepository(path)

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrEmpty)

	require.ErrorIs(t, repo.Save(context.Background(), nil), ErrEmpty)
	require.ErrorIs(t, repo.Save(context.Background(), install.ParseMarker("")), ErrEmpty)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns the same marker.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "version.txt")
	repo := NewFileRepository(path)
	require.Equal(t, path, repo.Path())

	want := install.ParseMarker("6.0.1")
	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Raw, got.Raw)
	require.True(t, want.Version.Equal(got.Version))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "6.0.1\n", string(contents))
}
