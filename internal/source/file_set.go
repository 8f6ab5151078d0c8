package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns every document of a run. Reloading a path adds a new
// version with a new FileID; older versions stay readable so findings
// recorded against them still resolve. A FileSet is not safe for
// concurrent mutation; load first, then share it read-only.
type FileSet struct {
	files   []*File
	latest  map[string]FileID
	baseDir string // пусто: текущая директория
}

// NewFileSet returns an empty set that displays paths relative to the
// working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase returns an empty set that displays paths relative to
// baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		latest:  make(map[string]FileID),
		baseDir: baseDir,
	}
}

func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir is the directory paths are shown relative to.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// DisplayPath shows an absolute path below BaseDir relative to it; any
// other path is shown as stored.
func (fileSet *FileSet) DisplayPath(f *File) string {
	if f == nil {
		return ""
	}
	if !filepath.IsAbs(f.Path) {
		return f.Path
	}
	base := fileSet.BaseDir()
	if base == "" {
		return f.Path
	}
	rel, err := filepath.Rel(base, f.Path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return f.Path
	}
	return filepath.ToSlash(rel)
}

// Add stores already normalized content as a new version of path. It
// panics when content or the number of files does not fit a uint32 offset;
// Load reports that case as an error instead.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: content too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f := &File{
		ID:      FileID(n),
		Path:    cleanPath(path),
		Content: content,
		LineIdx: indexNewlines(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	fileSet.files = append(fileSet.files, f)
	fileSet.latest[f.Path] = f.ID
	return f.ID
}

// Load reads path, strips a BOM, folds CRLF and adds the result.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if _, err := safecast.Conv[uint32](len(raw)); err != nil {
		return 0, fmt.Errorf("%s: file too large (%d bytes)", path, len(raw))
	}
	content, flags := normalize(raw)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds content that has no file behind it.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file with id, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// Len counts every version of every file.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Text returns the bytes under span, or nil for a span that does not fit
// its file.
func (fileSet *FileSet) Text(span Span) []byte {
	f := fileSet.Get(span.File)
	if f == nil || span.Start > span.End || int(span.End) > len(f.Content) {
		return nil
	}
	return f.Content[span.Start:span.End]
}

// GetLatest returns the newest version of path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.latest[cleanPath(path)]
	return id, ok
}

// GetByPath is GetLatest returning the file itself.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := fileSet.GetLatest(path)
	if !ok {
		return nil, false
	}
	return fileSet.files[id], true
}

// Resolve converts span to 1-based positions. Spans of unknown files
// resolve to zero positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return position(f.LineIdx, span.Start), position(f.LineIdx, span.End)
}

// GetLine returns line n (1-based) without its newline, or "" when the
// file has no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end])
}
