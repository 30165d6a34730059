package launch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess implements ps.Process.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

// listOf returns a process lister over a fixed table.
func listOf(processes ...ps.Process) func() ([]ps.Process, error) {
	return func() ([]ps.Process, error) {
		return processes, nil
	}
}

// TestCheckIdle verifies a running copy of the executable is detected.
func TestCheckIdle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "DownloadPavlovMapsFromModIo.exe")

	// Missing file is idle even if a process with the same name runs elsewhere.
	running := New(WithProcessLister(listOf(fakeProcess{pid: 4242, name: "DownloadPavlovMapsFromModIo.exe"})))
	require.NoError(t, running.CheckIdle(context.Background(), path))

	require.NoError(t, os.WriteFile(path, []byte("exe"), 0o600))
	require.ErrorIs(t, running.CheckIdle(context.Background(), path), ErrAlreadyRunning)

	// Our own process never counts.
	self := New(WithProcessLister(listOf(fakeProcess{pid: os.Getpid(), name: filepath.Base(path)})))
	require.NoError(t, self.CheckIdle(context.Background(), path))

	other := New(WithProcessLister(listOf(fakeProcess{pid: 1, name: "explorer.exe"})))
	require.NoError(t, other.CheckIdle(context.Background(), path))

	broken := New(WithProcessLister(func() ([]ps.Process, error) {
		return nil, errors.New("no process table")
	}))
	require.Error(t, broken.CheckIdle(context.Background(), path))
}

// TestCheckIdle_WindowsIgnoresCase verifies names are compared case-insensitively on Windows.
func TestCheckIdle_WindowsIgnoresCase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "App.exe")
	require.NoError(t, os.WriteFile(path, []byte("exe"), 0o600))

	l := New(WithProcessLister(listOf(fakeProcess{pid: 4242, name: "app.EXE"})))

	l.goos = "windows"
	require.ErrorIs(t, l.CheckIdle(context.Background(), path), ErrAlreadyRunning)

	l.goos = "linux"
	require.NoError(t, l.CheckIdle(context.Background(), path))
}

// TestCheckIdle_TruncatedNames verifies kernel-shortened process names still match outside Windows.
func TestCheckIdle_TruncatedNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "DownloadPavlovMapsFromModIo.exe")
	require.NoError(t, os.WriteFile(path, []byte("exe"), 0o600))

	l := New(WithProcessLister(listOf(fakeProcess{pid: 4242, name: "DownloadPavlovM"})))

	l.goos = "linux"
	require.ErrorIs(t, l.CheckIdle(context.Background(), path), ErrAlreadyRunning)

	l.goos = "windows"
	require.NoError(t, l.CheckIdle(context.Background(), path))

	mac := New(WithProcessLister(listOf(fakeProcess{pid: 4242, name: "DownloadPavlovMa"})))
	mac.goos = "darwin"
	require.ErrorIs(t, mac.CheckIdle(context.Background(), path), ErrAlreadyRunning)

	// Short names are compared whole.
	short := filepath.Join(t.TempDir(), "pmd.exe")
	require.NoError(t, os.WriteFile(short, []byte("exe"), 0o600))

	other := New(WithProcessLister(listOf(fakeProcess{pid: 4242, name: "pmd"})))
	other.goos = "linux"
	require.NoError(t, other.CheckIdle(context.Background(), short))
}

// TestLaunch verifies the opener receives the artifact path.
func TestLaunch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.exe")
	require.NoError(t, os.WriteFile(path, []byte("exe"), 0o600))

	var opened string

	l := New(WithOpener(func(p string) error {
		opened = p
		return nil
	}))

	require.NoError(t, l.Launch(context.Background(), path))
	require.Equal(t, path, opened)

	// Missing executables are not handed to the opener.
	opened = ""

	require.Error(t, l.Launch(context.Background(), filepath.Join(t.TempDir(), "missing.exe")))
	require.Empty(t, opened)
}
