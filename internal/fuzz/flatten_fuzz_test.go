package fuzztests

import (
	"context"
	"testing"

	"prosecheck/internal/check"
	"prosecheck/internal/flatten"
	"prosecheck/internal/source"
	"prosecheck/internal/strategy"
	"prosecheck/internal/tree"
)

// FuzzFlattenPlainText checks that the token list of every root covers the
// root bytes exactly once.
func FuzzFlattenPlainText(f *testing.F) {
	addSeeds(f, plainSeeds)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.txt", input)
		tr, err := tree.ParsePlainText(id, input)
		if err != nil {
			t.Fatalf("ParsePlainText: %v", err)
		}
		registry := strategy.Default()
		for _, root := range check.FindRoots(registry, tree.LanguagePlainText, tr) {
			s, _ := registry.ForRoot(tree.LanguagePlainText, tr, root)
			res, err := flatten.Flatten(context.Background(), tr, root, strategy.Safe(s, nil))
			if err != nil {
				t.Fatalf("Flatten root %d: %v", root, err)
			}
			next := 0
			for _, tok := range res.Tokens {
				if tok.Range.Start != next || tok.Range.End < tok.Range.Start {
					t.Fatalf("token %v breaks coverage at %d", tok.Range, next)
				}
				next = tok.Range.End
			}
			if next != res.RootLen() {
				t.Fatalf("tokens cover %d of %d root bytes", next, res.RootLen())
			}
			if len(res.Text) > res.RootLen() {
				t.Fatalf("flat text longer than the root: %d > %d", len(res.Text), res.RootLen())
			}
		}
	})
}
