package source

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"slices"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

// normalize strips a UTF-8 BOM and folds CRLF to LF. A lone CR is kept.
func normalize(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
		flags |= FileHadBOM
	}
	if bytes.Contains(raw, crlf) {
		raw = bytes.ReplaceAll(raw, crlf, lf)
		flags |= FileNormalizedCRLF
	}
	return raw, flags
}

// Encode converts content in the normalized form of f back to its on-disk
// form: the BOM and CRLF endings stripped on load are restored. Files with
// mixed line endings come back with CRLF everywhere.
func (f *File) Encode(content []byte) []byte {
	if f.Flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, lf, crlf)
	}
	if f.Flags&FileHadBOM != 0 {
		content = append(slices.Clip(utf8BOM), content...)
	}
	return content
}

// Changed reports whether the file on disk no longer matches the loaded
// content. Virtual files never change.
func (f *File) Changed() (bool, error) {
	if f.Flags&FileVirtual != 0 {
		return false, nil
	}
	// #nosec G304 -- the path was loaded by the caller before
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return false, err
	}
	content, _ := normalize(raw)
	return sha256.Sum256(content) != f.Hash, nil
}

func indexNewlines(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, lf))
	for off := 0; ; off++ {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		off += i
		out = append(out, uint32(off)) // #nosec G115 -- Add bounds content to uint32
	}
}

// position maps off to its line and column. The '\n' ending a line belongs
// to that line.
func position(newlines []uint32, off uint32) LineCol {
	// lines before off = newlines strictly before off
	line, _ := slices.BinarySearch(newlines, off)
	var start uint32
	if line > 0 {
		start = newlines[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - start + 1} // #nosec G115
}

// cleanPath gives one spelling per path so repeated loads share an index
// entry and output is stable across platforms.
func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
