package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

// filePlan holds the accepted edits of one file, sorted by position. All
// spans point into the loaded content; accepted edits never overlap, so the
// text under a new edit is still the loaded text.
type filePlan struct {
	file  *source.File
	edits []diag.TextEdit
}

type planSet struct {
	fs    *source.FileSet
	plans map[source.FileID]*filePlan
	order []source.FileID
	// files that cannot take edits, with the reason
	refused map[source.FileID]error
}

func newPlanSet(fs *source.FileSet) *planSet {
	return &planSet{
		fs:      fs,
		plans:   make(map[source.FileID]*filePlan),
		refused: make(map[source.FileID]error),
	}
}

// plan returns the plan of id, checking the file once.
func (ps *planSet) plan(id source.FileID) (*filePlan, error) {
	if p, ok := ps.plans[id]; ok {
		return p, nil
	}
	if err, ok := ps.refused[id]; ok {
		return nil, err
	}
	file := ps.fs.Get(id)
	err := writable(file, id)
	if err != nil {
		ps.refused[id] = err
		return nil, err
	}
	p := &filePlan{file: file}
	ps.plans[id] = p
	ps.order = append(ps.order, id)
	return p, nil
}

func writable(file *source.File, id source.FileID) error {
	if file == nil {
		return fmt.Errorf("file %d is not loaded", id)
	}
	if file.Flags&source.FileVirtual != 0 {
		return errors.New("target file is virtual")
	}
	changed, err := file.Changed()
	if err != nil {
		return fmt.Errorf("cannot re-read %s: %w", file.Path, err)
	}
	if changed {
		return errors.New("file changed on disk since it was checked")
	}
	return nil
}

// stage accepts all edits of one fix or none of them.
func (ps *planSet) stage(edits []diag.TextEdit) (int, error) {
	byFile := make(map[source.FileID][]diag.TextEdit)
	var files []source.FileID
	for _, e := range edits {
		if _, ok := byFile[e.Span.File]; !ok {
			files = append(files, e.Span.File)
		}
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	plans := make([]*filePlan, len(files))
	for i, id := range files {
		p, err := ps.plan(id)
		if err != nil {
			return 0, err
		}
		if err := p.check(byFile[id]); err != nil {
			return 0, err
		}
		plans[i] = p
	}
	for i, p := range plans {
		p.accept(byFile[files[i]])
	}
	return len(edits), nil
}

func (p *filePlan) check(edits []diag.TextEdit) error {
	content := p.file.Content
	for i, e := range edits {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return errors.New("edit span out of range")
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return errors.New("existing text does not match expected content")
		}
		for _, prev := range p.edits {
			if spansConflict(prev, e) {
				return fmt.Errorf("conflicts with previously applied edits in %s", p.file.Path)
			}
		}
		for _, other := range edits[:i] {
			if spansConflict(other, e) {
				return errors.New("fix has overlapping edits")
			}
		}
	}
	return nil
}

func (p *filePlan) accept(edits []diag.TextEdit) {
	p.edits = append(p.edits, edits...)
	slices.SortStableFunc(p.edits, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
}

// render splices the accepted edits into the loaded content.
func (p *filePlan) render() []byte {
	content := p.file.Content
	out := make([]byte, 0, len(content))
	at := uint32(0)
	for _, e := range p.edits {
		out = append(out, content[at:e.Span.Start]...)
		out = append(out, e.NewText...)
		at = e.Span.End
	}
	return append(out, content[at:]...)
}

// spansConflict reports whether two edits touch the same bytes. Spans are
// half-open; two insertions at one point never conflict, and an insertion
// conflicts with a replacement only strictly inside it or at its start.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae := a.Span.Start, a.Span.End
	bs, be := b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}
