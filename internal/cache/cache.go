// Package cache keeps per-file check results on disk, keyed by a digest of
// the language, the settings fingerprint and the file content. Editing a
// file changes its key, so stale entries are simply never read again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"prosecheck/internal/check"
	"prosecheck/internal/source"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Key derives the cache key of a file. settings fingerprints everything
// besides the content that changes results (dictionary, disabled rules).
func Key(lang, settings string, content []byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(lang))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(settings))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Typo is the stored form of check.Typo. Spans are kept as byte offsets
// without the file id, which is only valid within one FileSet.
type Typo struct {
	Category    uint8
	RuleID      string
	RuleGroup   string
	Message     string
	Suggestions []string
	Start, End  uint32
	Text        string
	Rename      bool
}

// Entry is the cached outcome of checking one file.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema   uint16
	Language string
	Roots    int
	Typos    []Typo
	// CheckerErrors counts roots whose external checker failed.
	CheckerErrors int
}

// NewEntry captures typos of a checked file.
func NewEntry(lang string, roots int, typos []check.Typo, checkerErrors int) *Entry {
	e := &Entry{
		Schema:        schemaVersion,
		Language:      lang,
		Roots:         roots,
		Typos:         make([]Typo, len(typos)),
		CheckerErrors: checkerErrors,
	}
	for i, t := range typos {
		e.Typos[i] = Typo{
			Category:    uint8(t.Category),
			RuleID:      t.RuleID,
			RuleGroup:   t.RuleGroup,
			Message:     t.Message,
			Suggestions: t.Suggestions,
			Start:       t.Location.Span.Start,
			End:         t.Location.Span.End,
			Text:        t.Text,
			Rename:      t.ShouldUseRename,
		}
	}
	return e
}

// Restore rebuilds the typos for file. Node ids are not cached.
func (e *Entry) Restore(file source.FileID) []check.Typo {
	out := make([]check.Typo, len(e.Typos))
	for i, t := range e.Typos {
		out[i] = check.Typo{
			Category:    token.Category(t.Category),
			RuleID:      t.RuleID,
			RuleGroup:   t.RuleGroup,
			Message:     t.Message,
			Suggestions: t.Suggestions,
			Location: check.Location{
				Span: source.Span{File: file, Start: t.Start, End: t.End},
				Node: tree.NoNode,
			},
			Text:            t.Text,
			ShouldUseRename: t.Rename,
		}
	}
	return out
}

// DiskCache stores entries as msgpack files under dir.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the cache directory, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDefault opens the cache at $XDG_CACHE_HOME/app or ~/.cache/app.
func OpenDefault(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// два символа на подкаталог, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key Digest, entry *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. It reports false for missing entries and for entries
// written with another schema version.
func (c *DiskCache) Get(key Digest, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		*out = Entry{}
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
