package install

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Marker is the content of a version marker file.
type Marker struct {
	// Raw is the trimmed file content.
	Raw string
	// Version is the parsed semantic version, nil when Raw is not one.
	Version *goversion.Version
}

// Change describes how a newly downloaded marker relates to the previous one.
type Change int

const (
	// ChangeUnknown means at least one side is not a semantic version.
	ChangeUnknown Change = iota
	// ChangeFresh means there was no previous marker.
	ChangeFresh
	// ChangeSame means both markers carry the same version.
	ChangeSame
	// ChangeUpgrade means the new version is greater.
	ChangeUpgrade
	// ChangeDowngrade means the new version is lower.
	ChangeDowngrade
)

// String returns the change name used in logs.
func (c Change) String() string {
	switch c {
	case ChangeFresh:
		return "fresh"
	case ChangeSame:
		return "same"
	case ChangeUpgrade:
		return "upgrade"
	case ChangeDowngrade:
		return "downgrade"
	default:
		return "unknown"
	}
}

// ParseMarker trims raw and parses it as a semantic version when possible.
func ParseMarker(raw string) *Marker {
	m := &Marker{
		Raw: strings.TrimSpace(raw),
	}

	if v, err := goversion.NewVersion(m.Raw); err == nil {
		m.Version = v
	}

	return m
}

// String returns the raw marker text.
func (m *Marker) String() string {
	if m == nil {
		return ""
	}

	return m.Raw
}

// Compare reports how current relates to previous.
func Compare(previous, current *Marker) Change {
	if previous == nil {
		return ChangeFresh
	}

	if current == nil || previous.Version == nil || current.Version == nil {
		if current != nil && previous.Raw == current.Raw {
			return ChangeSame
		}

		return ChangeUnknown
	}

	switch {
	case current.Version.GreaterThan(previous.Version):
		return ChangeUpgrade
	case current.Version.LessThan(previous.Version):
		return ChangeDowngrade
	default:
		return ChangeSame
	}
}
