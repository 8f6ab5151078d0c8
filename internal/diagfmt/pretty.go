package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgMagenta),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	path, pos := location(fs, d.Primary, opts.PathMode)
	header := fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
	fmt.Fprintf(w, "%s: %s %s: %s", p.path.Sprint(header), p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
	if d.RuleID != "" {
		fmt.Fprintf(w, " [%s]", d.RuleID)
	}
	fmt.Fprintln(w)

	snippet(w, fs, d.Primary, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			npath, npos := location(fs, n.Span, opts.PathMode)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), npath, npos.Line, npos.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, f := range d.Fixes {
			prettyFix(w, i+1, f, fs, opts, p)
		}
	}
}

func prettyFix(w io.Writer, n int, f diag.Fix, fs *source.FileSet, opts PrettyOpts, p palette) {
	meta := []string{f.Applicability.String()}
	if f.ID != "" {
		meta = append(meta, "id="+f.ID)
	}
	if f.IsPreferred {
		meta = append(meta, "preferred")
	}
	fmt.Fprintf(w, "  %s %s (%s)\n", p.fix.Sprintf("fix #%d:", n), f.Title, strings.Join(meta, ", "))
	for _, e := range f.Edits {
		epath, start := location(fs, e.Span, opts.PathMode)
		_, end := fs.Resolve(e.Span)
		fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%s\n", epath, start.Line, start.Col, end.Line, end.Col, strconv.Quote(e.NewText))
		if !opts.ShowPreview {
			continue
		}
		preview, err := previewEdit(fs, e)
		if err != nil {
			fmt.Fprintf(w, "    preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+l))
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+l))
		}
	}
}

// snippet prints the primary line with Context lines around it and a
// caret underline below the span.
func snippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := clip(f.GetLine(ln), opts.Width)
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		// only the part of the span on the first line is underlined
		endCol := uint32(len(text)) + 1
		if end.Line == start.Line {
			endCol = min(end.Col, endCol)
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), p.caret.Sprint(underline(text, start.Col, endCol)))
	}
}

// underline returns padding up to col and ^~~~ under [col, endCol). Columns
// are 1-based byte offsets; widths follow the terminal width of the runes.
func underline(line string, col, endCol uint32) string {
	from := min(max(int(col)-1, 0), len(line))
	to := min(max(int(endCol)-1, from), len(line))
	var b strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[from:to])
	b.WriteByte('^')
	if width > 1 {
		b.WriteString(strings.Repeat("~", width-1))
	}
	return b.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
