package tree

import (
	"fmt"

	"fortio.org/safecast"

	"prosecheck/internal/source"
)

// ParsePlainText builds document > paragraph > (line | newline) trees.
// Paragraphs are maximal runs of non-blank lines; blank lines between them end
// up in gap leaves of the document.
func ParsePlainText(file source.FileID, content []byte) (*Tree, error) {
	total, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("plain text too large: %w", err)
	}

	b := NewBuilder(file, content).SetLanguage(LanguagePlainText)
	b.Open(KindDocument, 0)

	lines := splitLines(content)
	inPara := false
	var paraEnd uint32
	for i, ln := range lines {
		if isBlank(content[ln.start:ln.end]) {
			if inPara {
				b.Close(paraEnd)
				inPara = false
			}
			continue
		}
		if !inPara {
			b.Open(KindParagraph, ln.start)
			inPara = true
		} else {
			// перевод строки между строками одного абзаца
			prev := lines[i-1]
			b.Leaf(KindNewline, prev.end, ln.start)
		}
		b.Leaf(KindLine, ln.start, ln.end)
		paraEnd = ln.end
	}
	if inPara {
		b.Close(paraEnd)
	}
	b.Close(total)
	return b.Finish()
}

type lineRange struct{ start, end uint32 }

// splitLines returns line ranges without their terminating '\n'.
func splitLines(content []byte) []lineRange {
	out := make([]lineRange, 0, 16)
	var start uint32
	for i, c := range content {
		if c == '\n' {
			out = append(out, lineRange{start: start, end: uint32(i)})
			start = uint32(i) + 1
		}
	}
	if int(start) < len(content) {
		out = append(out, lineRange{start: start, end: uint32(len(content))})
	}
	return out
}

func isBlank(line []byte) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
