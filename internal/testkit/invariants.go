package testkit

import (
	"fmt"

	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

// CheckTreeSpans verifies the structural invariants of a finished tree:
// 1) every span lies within the content
// 2) the children of every inner node are sorted, non-overlapping and cover
//    the parent exactly
// 3) parent links agree with child lists
func CheckTreeSpans(t *tree.Tree) error {
	if t == nil || t.Root() == tree.NoNode {
		return fmt.Errorf("empty tree")
	}
	var err error
	t.Walk(t.Root(), func(id tree.NodeID, _ int) bool {
		if err != nil {
			return false
		}
		sp := t.Span(id)
		if sp.Start > sp.End || int(sp.End) > len(t.Content) {
			err = fmt.Errorf("node %d (%s) span %v outside content of %d bytes", id, t.Kind(id), sp, len(t.Content))
			return false
		}
		children := t.Children(id)
		if len(children) == 0 {
			return true
		}
		pos := sp.Start
		for _, c := range children {
			if t.Parent(c) != id {
				err = fmt.Errorf("node %d lists child %d whose parent is %d", id, c, t.Parent(c))
				return false
			}
			csp := t.Span(c)
			if csp.Start != pos {
				err = fmt.Errorf("child %d (%s) of %d starts at %d, want %d", c, t.Kind(c), id, csp.Start, pos)
				return false
			}
			pos = csp.End
		}
		if pos != sp.End {
			err = fmt.Errorf("children of %d (%s) end at %d, parent ends at %d", id, t.Kind(id), pos, sp.End)
		}
		return err == nil
	})
	return err
}

// CheckCoverage verifies that tokens are non-overlapping, in order and
// exactly cover [0, rootLen).
func CheckCoverage(tokens []token.TokenInfo, rootLen int) error {
	pos := 0
	for i, ti := range tokens {
		if ti.Range.Start != pos {
			return fmt.Errorf("token %d (node %d, %s) starts at %d, want %d", i, ti.Node, ti.Behavior, ti.Range.Start, pos)
		}
		if ti.Range.End < ti.Range.Start {
			return fmt.Errorf("token %d has inverted range %v", i, ti.Range)
		}
		pos = ti.Range.End
	}
	if pos != rootLen {
		return fmt.Errorf("tokens cover [0,%d), root length is %d", pos, rootLen)
	}
	return nil
}

// CheckLengthAccounting verifies len(flat) + sum(OriginalLength) == rootLen.
func CheckLengthAccounting(flatLen int, shifts []token.ShiftEntry, rootLen int) error {
	total := flatLen
	for _, s := range shifts {
		total += s.OriginalLength
	}
	if total != rootLen {
		return fmt.Errorf("flat %d + elided %d = %d, root length is %d", flatLen, total-flatLen, total, rootLen)
	}
	return nil
}

// CheckMonotonic verifies that FlatPosition never decreases, stays inside the
// flat text and that every entry elides something.
func CheckMonotonic(shifts []token.ShiftEntry, flatLen int) error {
	prev := 0
	for i, s := range shifts {
		if s.FlatPosition < prev {
			return fmt.Errorf("shift %d at %d precedes previous position %d", i, s.FlatPosition, prev)
		}
		if s.FlatPosition > flatLen {
			return fmt.Errorf("shift %d at %d beyond flat text of %d bytes", i, s.FlatPosition, flatLen)
		}
		if s.OriginalLength <= 0 {
			return fmt.Errorf("shift %d elides %d bytes", i, s.OriginalLength)
		}
		prev = s.FlatPosition
	}
	return nil
}
