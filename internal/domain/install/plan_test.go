package install

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewPlan verifies destinations are joined onto the install directory.
func TestNewPlan(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan(
		" C:/Temp/PMD ",
		"https://example.com/releases/v6/DownloadPavlovMapsFromModIo.exe",
		"https://example.com/releases/v6/version.txt?raw=1",
	)
	require.NoError(t, err)

	require.Equal(t, filepath.Clean("C:/Temp/PMD"), plan.Directory)
	require.Equal(t, filepath.Join("C:/Temp/PMD", "DownloadPavlovMapsFromModIo.exe"), plan.ArtifactPath)
	require.Equal(t, filepath.Join("C:/Temp/PMD", "version.txt"), plan.VersionPath)
}

// TestNewPlan_Errors verifies empty directories and URLs without file names are rejected.
func TestNewPlan_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewPlan("  ", "https://example.com/a.exe", "https://example.com/v.txt")
	require.ErrorIs(t, err, ErrEmptyDirectory)

	_, err = NewPlan("dir", "https://example.com/", "https://example.com/v.txt")
	require.ErrorIs(t, err, errNoFileName)

	_, err = NewPlan("dir", "https://example.com/a.exe", "https://example.com")
	require.ErrorIs(t, err, errNoFileName)
}

// TestParseAnswer verifies only the one-letter forms are accepted.
func TestParseAnswer(t *testing.T) {
	t.Parallel()

	cases := map[string]Answer{
		"y":   AnswerYes,
		"Y":   AnswerYes,
		"n":   AnswerNo,
		"N":   AnswerNo,
		"yes": AnswerInvalid,
		"no":  AnswerInvalid,
		"":    AnswerInvalid,
		"q":   AnswerInvalid,
		" y":  AnswerInvalid,
	}
	for reply, want := range cases {
		require.Equal(t, want, ParseAnswer(reply), "reply %q", reply)
	}
}

// TestStepString verifies every step has a log name.
func TestStepString(t *testing.T) {
	t.Parallel()

	for step := StepCheckDependency; step <= StepDone; step++ {
		require.NotEqual(t, "unknown", step.String())
	}

	require.Equal(t, "unknown", Step(-1).String())
}
