package source

type (
	// FileID names one loaded version of a document in a FileSet.
	FileID uint32
	// FileFlags records how the loaded bytes differ from the bytes on disk.
	FileFlags uint8
)

const (
	// FileVirtual marks content that never came from disk (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM: a UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF: CRLF line endings were folded to LF on load.
	FileNormalizedCRLF
)

// File is one loaded document. Every span in the engine is a byte range
// of Content, which is already normalized.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offsets of the '\n' bytes of Content.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
