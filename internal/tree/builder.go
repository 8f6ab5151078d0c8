package tree

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"prosecheck/internal/source"
)

// ErrMalformed is returned by Finish when the recorded nodes do not form a
// properly nested tree.
var ErrMalformed = errors.New("malformed tree")

// Builder records nodes in pre-order and produces a Tree.
//
// Usage:
//
//	b := tree.NewBuilder(fileID, content)
//	b.Open(tree.KindDocument, 0)
//	b.Leaf(tree.KindLine, 0, 5)
//	b.Close(uint32(len(content)))
//	t, err := b.Finish()
type Builder struct {
	file     source.FileID
	content  []byte
	language string
	nodes    []Node
	stack    []NodeID
	err      error
}

// NewBuilder creates a builder over content. The content slice is retained.
func NewBuilder(file source.FileID, content []byte) *Builder {
	return &Builder{
		file:    file,
		content: content,
		nodes:   make([]Node, 0, 64),
	}
}

// SetLanguage records the language id on the produced tree.
func (b *Builder) SetLanguage(lang string) *Builder {
	b.language = lang
	return b
}

func (b *Builder) push(kind Kind, start, end uint32) NodeID {
	parent := NoNode
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1]
	} else if len(b.nodes) > 0 {
		b.fail(fmt.Errorf("%w: second root %q at %d", ErrMalformed, kind, start))
		return NoNode
	}
	n, err := safecast.Conv[uint32](len(b.nodes))
	if err != nil {
		b.fail(fmt.Errorf("node count overflow: %w", err))
		return NoNode
	}
	id := NodeID(n)
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Kind:   kind,
		Span:   source.Span{File: b.file, Start: start, End: end},
		Parent: parent,
	})
	if parent != NoNode {
		b.nodes[parent].Children = append(b.nodes[parent].Children, id)
	}
	return id
}

// Open starts an inner node at start. It must be matched by Close.
func (b *Builder) Open(kind Kind, start uint32) NodeID {
	if b.err != nil {
		return NoNode
	}
	id := b.push(kind, start, start)
	if id != NoNode {
		b.stack = append(b.stack, id)
	}
	return id
}

// Close ends the innermost open node at end.
func (b *Builder) Close(end uint32) {
	if b.err != nil {
		return
	}
	if len(b.stack) == 0 {
		b.fail(fmt.Errorf("%w: Close without Open", ErrMalformed))
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.nodes[id].Span.End = end
}

// Leaf records a childless node covering [start, end).
func (b *Builder) Leaf(kind Kind, start, end uint32) NodeID {
	if b.err != nil {
		return NoNode
	}
	return b.push(kind, start, end)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Finish validates nesting, fills uncovered bytes of every inner node with
// KindGap leaves and returns the tree.
func (b *Builder) Finish() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("%w: %d unclosed nodes", ErrMalformed, len(b.stack))
	}
	if len(b.nodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrMalformed)
	}
	lenContent, err := safecast.Conv[uint32](len(b.content))
	if err != nil {
		return nil, fmt.Errorf("content length overflow: %w", err)
	}

	// only nodes recorded before gap filling need checking
	count := len(b.nodes)
	for i := 0; i < count; i++ {
		n := &b.nodes[i]
		if n.Span.Start > n.Span.End || n.Span.End > lenContent {
			return nil, fmt.Errorf("%w: node %d (%s) span %v outside content of %d bytes", ErrMalformed, n.ID, n.Kind, n.Span, lenContent)
		}
		if len(n.Children) == 0 {
			continue
		}
		if err := b.fillGaps(NodeID(i)); err != nil {
			return nil, err
		}
	}

	return &Tree{
		File:     b.file,
		Language: b.language,
		Content:  b.content,
		nodes:    b.nodes,
		root:     0,
	}, nil
}

func (b *Builder) fillGaps(id NodeID) error {
	parent := b.nodes[id]
	pos := parent.Span.Start
	filled := make([]NodeID, 0, len(parent.Children)*2+1)
	for _, c := range parent.Children {
		sp := b.nodes[c].Span
		if sp.Start < pos || sp.End > parent.Span.End {
			return fmt.Errorf("%w: child %s %v of %s %v overlaps or escapes", ErrMalformed, b.nodes[c].Kind, sp, parent.Kind, parent.Span)
		}
		if sp.Start > pos {
			filled = append(filled, b.gap(id, pos, sp.Start))
		}
		filled = append(filled, c)
		pos = sp.End
	}
	if pos < parent.Span.End {
		filled = append(filled, b.gap(id, pos, parent.Span.End))
	}
	b.nodes[id].Children = filled
	return nil
}

func (b *Builder) gap(parent NodeID, start, end uint32) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Kind:   KindGap,
		Span:   source.Span{File: b.file, Start: start, End: end},
		Parent: parent,
	})
	return id
}
