package install

// Step is a state of the installer flow.
type Step int

const (
	// StepCheckDependency probes for the required runtime.
	StepCheckDependency Step = iota
	// StepPromptDependencyInstall asks whether to install the missing runtime.
	StepPromptDependencyInstall
	// StepPromptInstallPath asks for the install directory.
	StepPromptInstallPath
	// StepCreateDirectory creates the install directory.
	StepCreateDirectory
	// StepDownloadArtifact downloads the companion executable.
	StepDownloadArtifact
	// StepDownloadVersionMarker downloads the version marker.
	StepDownloadVersionMarker
	// StepLaunchArtifact opens the downloaded executable.
	StepLaunchArtifact
	// StepDone terminates the flow.
	StepDone
)

//nolint:gochecknoglobals // Read-only lookup table.
var stepNames = map[Step]string{
	StepCheckDependency:         "check-dependency",
	StepPromptDependencyInstall: "prompt-dependency-install",
	StepPromptInstallPath:       "prompt-install-path",
	StepCreateDirectory:         "create-directory",
	StepDownloadArtifact:        "download-artifact",
	StepDownloadVersionMarker:   "download-version-marker",
	StepLaunchArtifact:          "launch-artifact",
	StepDone:                    "done",
}

// String returns the step name used in logs.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}

	return "unknown"
}

// Answer is the reply to a yes/no prompt.
type Answer int

const (
	// AnswerInvalid is anything other than y, Y, n or N.
	AnswerInvalid Answer = iota
	// AnswerYes is y or Y.
	AnswerYes
	// AnswerNo is n or N.
	AnswerNo
)

// ParseAnswer maps a single reply token to an Answer.
// Only the one-letter forms are accepted, in either case.
func ParseAnswer(reply string) Answer {
	switch reply {
	case "y", "Y":
		return AnswerYes
	case "n", "N":
		return AnswerNo
	default:
		return AnswerInvalid
	}
}
