// Package version holds build metadata for the prosecheck CLI.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with the major, minor and patch parts colored.
// Versions that are not dotted triples are returned as is.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info returns the version line followed by optional commit and build date
// lines.
func Info(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	lines := []string{"prosecheck " + v}
	if GitCommit != "" {
		lines = append(lines, "commit: "+GitCommit)
	}
	if BuildDate != "" {
		lines = append(lines, "built:  "+BuildDate)
	}
	return strings.Join(lines, "\n")
}
