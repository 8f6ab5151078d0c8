package tree

import (
	"math"

	"prosecheck/internal/source"
)

// NodeID addresses a node inside its Tree.
type NodeID uint32

// NoNode marks an absent node (parent of the root, failed lookups).
const NoNode NodeID = math.MaxUint32

// Kind is the tag of a node: a grammar symbol name for parsed trees or one of
// the synthetic kinds below.
type Kind string

const (
	KindGap       Kind = "gap"
	KindDocument  Kind = "document"
	KindParagraph Kind = "paragraph"
	KindLine      Kind = "line"
	KindNewline   Kind = "newline"
)

// Node is a single tree node.
type Node struct {
	ID       NodeID
	Kind     Kind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
}

// Tree is an immutable node arena over one file's content.
type Tree struct {
	File     source.FileID
	Language string
	Content  []byte

	nodes []Node
	root  NodeID
}

// Root returns the top node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if t == nil || len(t.nodes) == 0 {
		return NoNode
	}
	return t.root
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the node for id or nil when id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return ""
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Node(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Children returns the ordered child list. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	n := t.Node(id)
	return n != nil && len(n.Children) == 0
}

// Text returns the source text under id's span.
func (t *Tree) Text(id NodeID) string {
	n := t.Node(id)
	if n == nil || int(n.Span.End) > len(t.Content) || n.Span.Start > n.Span.End {
		return ""
	}
	return string(t.Content[n.Span.Start:n.Span.End])
}

// FirstChildOfKind returns the first direct child of id with one of kinds.
func (t *Tree) FirstChildOfKind(id NodeID, kinds ...Kind) NodeID {
	for _, c := range t.Children(id) {
		k := t.Kind(c)
		for _, want := range kinds {
			if k == want {
				return c
			}
		}
	}
	return NoNode
}

// HasAncestor reports whether any proper ancestor of id has one of kinds.
func (t *Tree) HasAncestor(id NodeID, kinds ...Kind) bool {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		k := t.Kind(p)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
	}
	return false
}

// Walk visits the subtree rooted at id in pre-order. When fn returns false the
// children of the current node are skipped.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	if t.Node(id) == nil {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: id}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top.id, top.depth) {
			continue
		}
		children := t.Children(top.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: children[i], depth: top.depth + 1})
		}
	}
}
