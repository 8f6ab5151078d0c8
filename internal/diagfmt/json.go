package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

// LocationJSON is a byte range, plus line and column when requested.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one finding. Text is the flagged source text;
// Suggestions lists the replacements of single-edit fixes, best first, for
// consumers that do not want the full fix model.
type DiagnosticJSON struct {
	Severity    string       `json:"severity"`
	Code        string       `json:"code"`
	Category    string       `json:"category"`
	RuleID      string       `json:"rule_id,omitempty"`
	Message     string       `json:"message"`
	Text        string       `json:"text,omitempty"`
	Location    LocationJSON `json:"location"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Notes       []NoteJSON   `json:"notes,omitempty"`
	Fixes       []FixJSON    `json:"fixes,omitempty"`
}

// SummaryJSON counts every diagnostic of the bag, including those cut by Max.
type SummaryJSON struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
	Summary     SummaryJSON      `json:"summary"`
}

type jsonEncoder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (e jsonEncoder) location(span source.Span) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(e.fs, e.fs.Get(span.File), e.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if e.opts.IncludePositions {
		start, end := e.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (e jsonEncoder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Category: d.Category.String(),
		RuleID:   d.RuleID,
		Message:  d.Message,
		Text:     string(e.fs.Text(d.Primary)),
		Location: e.location(d.Primary),
	}
	fixes := rankFixes(d.Fixes)
	for _, f := range fixes {
		if len(f.Edits) == 1 && f.Edits[0].Span == d.Primary {
			out.Suggestions = append(out.Suggestions, f.Edits[0].NewText)
		}
	}
	if e.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: e.location(n.Span)})
		}
	}
	if e.opts.IncludeFixes {
		for _, f := range fixes {
			out.Fixes = append(out.Fixes, e.fix(f))
		}
	}
	return out
}

func (e jsonEncoder) fix(f diag.Fix) FixJSON {
	out := FixJSON{
		ID:            f.ID,
		Title:         f.Title,
		Applicability: f.Applicability.String(),
		IsPreferred:   f.IsPreferred,
	}
	for _, edit := range f.Edits {
		ej := FixEditJSON{
			Location: e.location(edit.Span),
			NewText:  edit.NewText,
			OldText:  edit.OldText,
		}
		if e.opts.IncludePreviews {
			if p, err := previewEdit(e.fs, edit); err == nil {
				ej.BeforeLines, ej.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// rankFixes orders preferred fixes first, then by applicability.
func rankFixes(fixes []diag.Fix) []diag.Fix {
	ranked := slices.Clone(fixes)
	slices.SortStableFunc(ranked, func(a, b diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Applicability, b.Applicability)
	})
	return ranked
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	enc := jsonEncoder{fs: fs, opts: opts}
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for i, d := range items {
		switch d.Severity {
		case diag.SevError:
			out.Summary.Errors++
		case diag.SevWarning:
			out.Summary.Warnings++
		default:
			out.Summary.Infos++
		}
		if opts.Max > 0 && i >= opts.Max {
			out.Truncated = true
			continue
		}
		out.Diagnostics = append(out.Diagnostics, enc.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics of bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
