package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

var errPreviewSpan = errors.New("edit span does not fit the file")

// editPreview holds the whole lines an edit touches, before and after it
// is applied.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	f := fs.Get(edit.Span.File)
	if f == nil {
		return editPreview{}, fmt.Errorf("file %d is not loaded", edit.Span.File)
	}
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(f.Content) {
		return editPreview{}, errPreviewSpan
	}
	content := f.Content
	lo := bytes.LastIndexByte(content[:start], '\n') + 1
	hi := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		hi = end + i
	}

	var after strings.Builder
	after.Write(content[lo:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:hi])
	return editPreview{
		before: previewLines(string(content[lo:hi])),
		after:  previewLines(after.String()),
	}, nil
}

// previewLines splits a block into lines; an empty block has none.
func previewLines(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}
