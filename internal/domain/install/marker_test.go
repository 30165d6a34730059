package install

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseMarker verifies semantic versions are recognised and other text is kept raw.
func TestParseMarker(t *testing.T) {
	t.Parallel()

	m := ParseMarker(" v6.0.1\r\n")
	require.Equal(t, "v6.0.1", m.String())
	require.NotNil(t, m.Version)
	require.Equal(t, "6.0.1", m.Version.String())

	m = ParseMarker("nightly build")
	require.Equal(t, "nightly build", m.Raw)
	require.Nil(t, m.Version)

	require.Empty(t, (*Marker)(nil).String())
}

// TestCompare verifies the reported change for every combination.
func TestCompare(t *testing.T) {
	t.Parallel()

	require.Equal(t, ChangeFresh, Compare(nil, ParseMarker("6")))
	require.Equal(t, ChangeUpgrade, Compare(ParseMarker("6.0.0"), ParseMarker("6.1.0")))
	require.Equal(t, ChangeDowngrade, Compare(ParseMarker("6.1.0"), ParseMarker("v6.0.9")))
	require.Equal(t, ChangeSame, Compare(ParseMarker("6.0"), ParseMarker("v6.0.0")))
	require.Equal(t, ChangeSame, Compare(ParseMarker("beta"), ParseMarker("beta")))
	require.Equal(t, ChangeUnknown, Compare(ParseMarker("beta"), ParseMarker("6.0.0")))
	require.Equal(t, ChangeUnknown, Compare(ParseMarker("6.0.0"), nil))
	require.Equal(t, "upgrade", ChangeUpgrade.String())
	require.Equal(t, "unknown", Change(99).String())
}
