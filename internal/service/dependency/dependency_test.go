package dependency

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pmd-bootstrap/internal/config"
)

// failingPackage makes the helper process exit with a non-zero code.
const failingPackage = "broken.package"

// TestHelperProcess stands in for the package manager when the test binary re-executes itself.
//
//nolint:paralleltest // Runs as a separate process.
func TestHelperProcess(_ *testing.T) {
	separator := slices.Index(os.Args, "--")
	if separator < 0 {
		return
	}

	args := os.Args[separator+1:]
	_, _ = fmt.Fprintln(os.Stdout, strings.Join(args, " "))

	if slices.Contains(args, failingPackage) {
		os.Exit(3)
	}

	os.Exit(0)
}

// helperDependency returns settings that run this test binary as the package manager.
func helperDependency(probePath, packageID string) config.Dependency {
	return config.Dependency{
		Name:           "Test Runtime",
		Path:           probePath,
		PackageManager: os.Args[0],
		PackageID:      packageID,
		InstallArgs:    []string{"-test.run=^TestHelperProcess$", "--", "install", config.PackagePlaceholder},
	}
}

// TestPresent verifies the probe reports existing and missing paths.
func TestPresent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	present, err := New(helperDependency(dir, "pkg")).Present(context.Background())
	require.NoError(t, err)
	require.True(t, present)

	present, err = New(helperDependency(filepath.Join(dir, "missing"), "pkg")).Present(context.Background())
	require.NoError(t, err)
	require.False(t, present)
}

// TestInstall verifies the package manager receives the package identifier.
func TestInstall(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	r := New(helperDependency(t.TempDir(), "Microsoft.DotNet.DesktopRuntime.6"), WithOutput(&stdout, nil))

	require.NoError(t, r.Install(context.Background()))
	require.Contains(t, stdout.String(), "install Microsoft.DotNet.DesktopRuntime.6")
	require.Equal(t, "Microsoft.DotNet.DesktopRuntime.6", r.Command()[len(r.Command())-1])
}

// TestInstall_Failure verifies a failing package manager is reported.
func TestInstall_Failure(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	r := New(helperDependency(t.TempDir(), failingPackage), WithOutput(&stdout, &stdout))

	require.Error(t, r.Install(context.Background()))
}
