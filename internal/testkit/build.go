// Package testkit holds tree builders and invariant checks shared by tests.
package testkit

import (
	"fortio.org/safecast"

	"prosecheck/internal/source"
	"prosecheck/internal/tree"
)

// Spec describes a node for Build: leaves carry text, inner nodes children.
type Spec struct {
	Kind     tree.Kind
	Text     string
	Children []Spec
}

// L is a leaf spec.
func L(kind tree.Kind, text string) Spec {
	return Spec{Kind: kind, Text: text}
}

// N is an inner node spec.
func N(kind tree.Kind, children ...Spec) Spec {
	return Spec{Kind: kind, Children: children}
}

// Build lays the leaves of spec out back to back and returns the tree.
// It panics on malformed specs; callers are tests.
func Build(lang string, spec Spec) *tree.Tree {
	var content []byte
	collect(&content, spec)
	b := tree.NewBuilder(source.FileID(1), content).SetLanguage(lang)
	var pos uint32
	emit(b, spec, &pos)
	t, err := b.Finish()
	if err != nil {
		panic(err)
	}
	return t
}

func collect(dst *[]byte, s Spec) {
	if len(s.Children) == 0 {
		*dst = append(*dst, s.Text...)
		return
	}
	for _, c := range s.Children {
		collect(dst, c)
	}
}

func emit(b *tree.Builder, s Spec, pos *uint32) {
	if len(s.Children) == 0 {
		n, err := safecast.Conv[uint32](len(s.Text))
		if err != nil {
			panic(err)
		}
		b.Leaf(s.Kind, *pos, *pos+n)
		*pos += n
		return
	}
	b.Open(s.Kind, *pos)
	for _, c := range s.Children {
		emit(b, c, pos)
	}
	b.Close(*pos)
}

// Find returns the first node of kind in pre-order, or tree.NoNode.
func Find(t *tree.Tree, kind tree.Kind) tree.NodeID {
	return FindNth(t, kind, 0)
}

// FindNth returns the n-th (0-based) node of kind in pre-order.
func FindNth(t *tree.Tree, kind tree.Kind, n int) tree.NodeID {
	found := tree.NoNode
	t.Walk(t.Root(), func(id tree.NodeID, _ int) bool {
		if found != tree.NoNode {
			return false
		}
		if t.Kind(id) == kind {
			if n == 0 {
				found = id
				return false
			}
			n--
		}
		return true
	})
	return found
}
