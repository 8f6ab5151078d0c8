package testkit

import (
	"testing"

	"prosecheck/internal/token"
)

func TestBuildLaysOutLeaves(t *testing.T) {
	tr := Build("test", N("document",
		L("text", "foo "),
		N("element", L("tag", "<b>"), L("text", "x"), L("tag", "</b>")),
		L("text", " bar"),
	))
	if got := string(tr.Content); got != "foo <b>x</b> bar" {
		t.Fatalf("content = %q", got)
	}
	el := Find(tr, "element")
	if got := tr.Text(el); got != "<b>x</b>" {
		t.Fatalf("element text = %q", got)
	}
	if got := tr.Text(FindNth(tr, "tag", 1)); got != "</b>" {
		t.Fatalf("second tag = %q", got)
	}
	if err := CheckTreeSpans(tr); err != nil {
		t.Fatal(err)
	}
}

func TestCheckersReject(t *testing.T) {
	gap := []token.TokenInfo{{Range: token.Range{Start: 0, End: 2}}, {Range: token.Range{Start: 3, End: 5}}}
	if CheckCoverage(gap, 5) == nil {
		t.Error("coverage with a hole accepted")
	}
	if CheckLengthAccounting(3, []token.ShiftEntry{{FlatPosition: 1, OriginalLength: 2}}, 6) == nil {
		t.Error("wrong length accounting accepted")
	}
	back := []token.ShiftEntry{{FlatPosition: 4, OriginalLength: 1}, {FlatPosition: 2, OriginalLength: 1}}
	if CheckMonotonic(back, 10) == nil {
		t.Error("decreasing ledger accepted")
	}
}
