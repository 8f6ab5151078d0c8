package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prosecheck/internal/diag"
	"prosecheck/internal/diagfmt"
	"prosecheck/internal/fix"
	"prosecheck/internal/version"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode("color", tc.input)
		if tc.wantErr {
			if err == nil || !strings.Contains(err.Error(), "--color") {
				t.Fatalf("readUIMode(%q) error = %v, want flag error", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("readUIMode(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParsePathMode(t *testing.T) {
	cases := []struct {
		input string
		want  diagfmt.PathMode
	}{
		{"", diagfmt.PathModeAuto},
		{"relative", diagfmt.PathModeRelative},
		{"ABSOLUTE", diagfmt.PathModeAbsolute},
		{"basename", diagfmt.PathModeBasename},
	}
	for _, tc := range cases {
		got, err := parsePathMode(tc.input)
		if err != nil {
			t.Fatalf("parsePathMode(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("parsePathMode(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	if _, err := parsePathMode("nearby"); err == nil {
		t.Fatalf("expected error for unknown path mode")
	}
}

func TestTargetDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "README.md")
	if err := os.WriteFile(file, []byte("hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := targetDir(nil); got != "." {
		t.Fatalf("targetDir(nil) = %q", got)
	}
	if got := targetDir([]string{file}); got != root {
		t.Fatalf("targetDir(file) = %q, want %q", got, root)
	}
	if got := targetDir([]string{root}); got != root {
		t.Fatalf("targetDir(dir) = %q, want %q", got, root)
	}
}

func TestHandleApplyResult(t *testing.T) {
	var out strings.Builder
	res := &fix.ApplyResult{
		Applied: []fix.AppliedFix{{
			ID:            "fix-1",
			Title:         "replace with \"the\"",
			Applicability: diag.FixApplicabilitySafeWithHeuristics,
			PrimaryPath:   "docs/a.md",
			EditCount:     1,
		}},
		Skipped:     []fix.SkippedFix{{Reason: "overlaps an earlier fix"}},
		FileChanges: []fix.FileChange{{Path: "docs/a.md", EditCount: 1}},
	}
	if err := handleApplyResult(&out, res, nil); err != nil {
		t.Fatalf("handleApplyResult: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Applied 1 fix(es):",
		"[fix-1] at docs/a.md (1 edits, safe-with-heuristics)",
		"Updated files:",
		"[(unnamed)]: overlaps an earlier fix",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := handleApplyResult(&out, &fix.ApplyResult{}, fix.ErrNoFixes); err != nil {
		t.Fatalf("ErrNoFixes should not fail: %v", err)
	}
	if !strings.Contains(out.String(), "No applicable fixes found.") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRenderVersionJSON(t *testing.T) {
	origVersion, origCommit := version.Version, version.GitCommit
	defer func() { version.Version, version.GitCommit = origVersion, origCommit }()
	version.Version, version.GitCommit = "0.3.0", " abc123 "

	var out strings.Builder
	if err := renderVersionJSON(&out); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out.String()), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if payload.Tool != "prosecheck" || payload.Version != "0.3.0" || payload.GitCommit != "abc123" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
