package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

func decode(t *testing.T, buf *bytes.Buffer) DiagnosticsOutput {
	t.Helper()
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	return output
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("notes.md", []byte("# Title\n\nSome wrold here.\n"))

	bag := diag.NewBag(10)
	bag.Add(spellingDiag(fileID, 14, 19, "wrold", "world"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	output := decode(t, &buf)

	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d (count=%d)", len(output.Diagnostics), output.Count)
	}
	d := output.Diagnostics[0]
	if d.Severity != "WARNING" {
		t.Errorf("Expected severity=WARNING, got %s", d.Severity)
	}
	if d.Code != "SPL1001" {
		t.Errorf("Expected code=SPL1001, got %s", d.Code)
	}
	if d.Category != "spelling" {
		t.Errorf("Expected category=spelling, got %s", d.Category)
	}
	if d.RuleID != "SPELL_UNKNOWN_WORD" {
		t.Errorf("Expected rule_id=SPELL_UNKNOWN_WORD, got %s", d.RuleID)
	}
	if d.Location.File != "notes.md" {
		t.Errorf("Expected file=notes.md, got %s", d.Location.File)
	}
	if d.Location.StartByte != 14 || d.Location.EndByte != 19 {
		t.Errorf("Expected bytes 14-19, got %d-%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 6 {
		t.Errorf("Expected 3:6, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}

	if len(d.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(d.Fixes))
	}
	fix := d.Fixes[0]
	if fix.Applicability != "safe-with-heuristics" || !fix.IsPreferred {
		t.Errorf("Unexpected fix metadata: %+v", fix)
	}
	if len(fix.Edits) != 1 || fix.Edits[0].NewText != "world" || fix.Edits[0].OldText != "wrold" {
		t.Errorf("Unexpected edits: %+v", fix.Edits)
	}
}

func TestJSONFixOrder(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("notes.md", []byte("Teh\n"))

	d := diag.New(diag.SevWarning, diag.SpellUnknownWord, source.Span{File: fileID, Start: 0, End: 3}, "unknown word")
	d = d.WithFix(diag.ReplaceSpan("manual", d.Primary, "Ten", "Teh", diag.WithApplicability(diag.FixApplicabilityManualReview)))
	d = d.WithFix(diag.ReplaceSpan("heuristic", d.Primary, "Tea", "Teh", diag.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)))
	d = d.WithFix(diag.ReplaceSpan("preferred", d.Primary, "The", "Teh", diag.WithApplicability(diag.FixApplicabilityManualReview), diag.Preferred()))
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeFixes: true}); err != nil {
		t.Fatal(err)
	}
	output := decode(t, &buf)
	var titles []string
	for _, f := range output.Diagnostics[0].Fixes {
		titles = append(titles, f.Title)
	}
	want := []string{"preferred", "heuristic", "manual"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("notes.md", []byte("Teh end"))

	bag := diag.NewBag(10)
	d := spellingDiag(fileID, 0, 3, "Teh", "The")
	d = d.WithNote(d.Primary, "seen once")
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	output := decode(t, &buf)
	got := output.Diagnostics[0]

	// omitempty скрывает позиции
	if got.Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", got.Location.StartLine)
	}
	if got.Location.EndByte != 3 {
		t.Errorf("Expected end_byte=3, got %d", got.Location.EndByte)
	}
	if len(got.Notes) != 0 || len(got.Fixes) != 0 {
		t.Errorf("notes and fixes must be opt-in: %+v", got)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("notes.md", []byte("aaaaa bbbbb"))

	bag := diag.NewBag(10)
	for i := range uint32(5) {
		bag.Add(diag.New(diag.SevInfo, diag.TypoOther, source.Span{File: fileID, Start: i, End: i + 1}, "typography"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	output := decode(t, &buf)
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d (count=%d)", len(output.Diagnostics), output.Count)
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/docs/guide.md", []byte("Teh"))

	bag := diag.NewBag(10)
	bag.Add(spellingDiag(fileID, 0, 3, "Teh"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/docs/guide.md"},
		{"Relative", PathModeRelative, "docs/guide.md"},
		{"Basename", PathModeBasename, "guide.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := JSON(&buf, bag, fs, JSONOpts{PathMode: tt.pathMode}); err != nil {
				t.Fatalf("JSON() error: %v", err)
			}
			output := decode(t, &buf)
			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.md", []byte("An apple a day\nkeeps teh doctor away\n"))

	bag := diag.NewBag(2)
	bag.Add(spellingDiag(fileID, 21, 24, "teh", "the"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	output := decode(t, &buf)

	edits := output.Diagnostics[0].Fixes[0].Edits
	if len(edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(edits))
	}
	e := edits[0]
	if len(e.BeforeLines) != 1 || e.BeforeLines[0] != "keeps teh doctor away" {
		t.Errorf("Unexpected before lines: %q", e.BeforeLines)
	}
	if len(e.AfterLines) != 1 || e.AfterLines[0] != "keeps the doctor away" {
		t.Errorf("Unexpected after lines: %q", e.AfterLines)
	}
	if e.Location.StartLine != 2 || e.Location.StartCol != 7 {
		t.Errorf("Expected edit at 2:7, got %d:%d", e.Location.StartLine, e.Location.StartCol)
	}
}
