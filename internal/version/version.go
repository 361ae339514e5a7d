package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the cfmt CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the build metadata as printed by `cfmt version --format json`.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
	}
}

// Colored renders Version with its major, minor and patch numbers in
// distinct colors. Pre-release and build suffixes are left plain.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}
