package diagfmt

import (
	"path/filepath"

	"prosecheck/internal/source"
)

// autoPathLimit is the longest path PathModeAuto prints unchanged.
const autoPathLimit = 40

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if filepath.IsAbs(f.Path) || f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return fs.DisplayPath(f)
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	if !filepath.IsAbs(f.Path) && len(f.Path) <= autoPathLimit {
		return f.Path
	}
	if rel := fs.DisplayPath(f); rel != f.Path {
		return rel
	}
	return filepath.Base(f.Path)
}

// location formats span start as path:line:col.
func location(fs *source.FileSet, span source.Span, mode PathMode) (string, source.LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>", source.LineCol{}
	}
	start, _ := fs.Resolve(span)
	return formatPath(fs, f, mode), start
}
