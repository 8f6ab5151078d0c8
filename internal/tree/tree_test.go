package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestBuilderFillsGaps(t *testing.T) {
	content := []byte("ab<x>cd")
	b := NewBuilder(0, content)
	b.Open(KindDocument, 0)
	b.Leaf("tag", 2, 5)
	b.Close(7)
	tr, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	children := tr.Children(tr.Root())
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3 (gap, tag, gap)", len(children))
	}
	want := []struct {
		kind Kind
		text string
	}{{KindGap, "ab"}, {"tag", "<x>"}, {KindGap, "cd"}}
	for i, c := range children {
		if tr.Kind(c) != want[i].kind || tr.Text(c) != want[i].text {
			t.Errorf("child %d = %s %q, want %s %q", i, tr.Kind(c), tr.Text(c), want[i].kind, want[i].text)
		}
		if tr.Parent(c) != tr.Root() {
			t.Errorf("child %d parent = %d", i, tr.Parent(c))
		}
	}
}

func TestBuilderRejectsOverlap(t *testing.T) {
	b := NewBuilder(0, []byte("abcdef"))
	b.Open(KindDocument, 0)
	b.Leaf("a", 0, 4)
	b.Leaf("b", 2, 6)
	b.Close(6)
	if _, err := b.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Finish error = %v, want ErrMalformed", err)
	}
}

func TestBuilderRejectsUnclosed(t *testing.T) {
	b := NewBuilder(0, []byte("abc"))
	b.Open(KindDocument, 0)
	if _, err := b.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Finish error = %v, want ErrMalformed", err)
	}
}

func TestWalkPreOrder(t *testing.T) {
	tr, err := ParsePlainText(0, []byte("one\ntwo\n\nthree"))
	if err != nil {
		t.Fatalf("ParsePlainText: %v", err)
	}
	var kinds []string
	tr.Walk(tr.Root(), func(id NodeID, depth int) bool {
		kinds = append(kinds, strings.Repeat(".", depth)+string(tr.Kind(id)))
		return true
	})
	got := strings.Join(kinds, " ")
	want := "document .paragraph ..line ..newline ..line .gap .paragraph ..line"
	if got != want {
		t.Fatalf("walk = %q\nwant  %q", got, want)
	}
}

func TestParsePlainTextParagraphText(t *testing.T) {
	src := "  Indented first line\nsecond line\n\n\nNext paragraph.\n"
	tr, err := ParsePlainText(0, []byte(src))
	if err != nil {
		t.Fatalf("ParsePlainText: %v", err)
	}
	var paras []string
	for _, c := range tr.Children(tr.Root()) {
		if tr.Kind(c) == KindParagraph {
			paras = append(paras, tr.Text(c))
		}
	}
	if len(paras) != 2 {
		t.Fatalf("paragraphs = %q", paras)
	}
	if paras[0] != "  Indented first line\nsecond line" || paras[1] != "Next paragraph." {
		t.Fatalf("paragraph texts = %q", paras)
	}
	if tr.Span(tr.Root()).End != uint32(len(src)) {
		t.Fatalf("document span = %v", tr.Span(tr.Root()))
	}
}

func TestAncestorsAndChildLookup(t *testing.T) {
	tr, err := ParsePlainText(0, []byte("alpha\nbeta"))
	if err != nil {
		t.Fatalf("ParsePlainText: %v", err)
	}
	para := tr.FirstChildOfKind(tr.Root(), KindParagraph)
	if para == NoNode {
		t.Fatal("paragraph not found")
	}
	line := tr.FirstChildOfKind(para, KindLine)
	if !tr.HasAncestor(line, KindDocument) {
		t.Error("line should have a document ancestor")
	}
	if tr.HasAncestor(line, KindGap) {
		t.Error("line has no gap ancestor")
	}
}
