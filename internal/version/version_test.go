package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Info(false); got != "prosecheck 1.2.3" {
		t.Errorf("Info() = %q", got)
	}

	GitCommit, BuildDate = "abc123def456", "2024-01-15T10:30:00Z"
	want := "prosecheck 1.2.3\ncommit: abc123def456\nbuilt:  2024-01-15T10:30:00Z"
	if got := Info(false); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = false

	tests := []struct {
		version string
		colored bool
	}{
		{"0.1.0", true},
		{"1.0.0-beta.1", true},
		{"1.2.3-rc.1+build.123", true},
		{"nightly", false},
		{"1.2", false},
	}
	for _, tt := range tests {
		Version = tt.version
		got := Colored()
		if has := strings.Contains(got, "\x1b["); has != tt.colored {
			t.Errorf("Colored() for %q = %q, colored=%v want %v", tt.version, got, has, tt.colored)
		}
		if plain := stripANSI(got); plain != tt.version {
			t.Errorf("Colored() for %q strips to %q", tt.version, plain)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
