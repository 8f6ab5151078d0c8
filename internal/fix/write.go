package fix

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// write renders every touched file back to its on-disk encoding and
// replaces it.
func (ps *planSet) write() ([]FileChange, error) {
	changes := make([]FileChange, 0, len(ps.order))
	for _, id := range ps.order {
		p := ps.plans[id]
		if len(p.edits) == 0 {
			continue
		}
		if err := writeAtomic(p.file.Path, p.file.Encode(p.render())); err != nil {
			return changes, fmt.Errorf("write %s: %w", p.file.Path, err)
		}
		changes = append(changes, FileChange{
			Path:      ps.fs.DisplayPath(p.file),
			EditCount: len(p.edits),
		})
	}
	slices.SortFunc(changes, func(a, b FileChange) int { return strings.Compare(a.Path, b.Path) })
	return changes, nil
}

// writeAtomic replaces path with data through a temp file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".fix-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
