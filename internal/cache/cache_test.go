package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"prosecheck/internal/check"
	"prosecheck/internal/source"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

func TestKey(t *testing.T) {
	base := Key("markdown", "dict=a", []byte("Teh cat"))
	if base != Key("markdown", "dict=a", []byte("Teh cat")) {
		t.Fatal("key is not deterministic")
	}
	for name, other := range map[string]Digest{
		"content":  Key("markdown", "dict=a", []byte("The cat")),
		"language": Key("plaintext", "dict=a", []byte("Teh cat")),
		"settings": Key("markdown", "dict=b", []byte("Teh cat")),
		// the separator keeps field boundaries apart
		"boundary": Key("markdowndict=a", "", []byte("Teh cat")),
	} {
		if other == base {
			t.Errorf("changing %s kept the key", name)
		}
	}
	if len(base.String()) != 64 {
		t.Errorf("hex key length = %d", len(base.String()))
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	typos := []check.Typo{{
		Category:    token.CategorySpelling,
		RuleID:      "SPELL_UNKNOWN_WORD",
		RuleGroup:   token.GroupSpelling,
		Message:     `unknown word "Teh"`,
		Suggestions: []string{"The", "Ten"},
		Location:    check.Location{Span: source.Span{File: 3, Start: 0, End: 3}, Node: 7},
		Text:        "Teh",
	}}
	key := Key("plaintext", "", []byte("Teh cat"))
	if err := c.Put(key, NewEntry("plaintext", 1, typos, 0)); err != nil {
		t.Fatal(err)
	}

	var got Entry
	ok, err := c.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Language != "plaintext" || got.Roots != 1 {
		t.Fatalf("entry = %+v", got)
	}
	restored := got.Restore(9)
	if len(restored) != 1 {
		t.Fatalf("restored %d typos", len(restored))
	}
	r := restored[0]
	if r.Location.Span != (source.Span{File: 9, Start: 0, End: 3}) || r.Location.Node != tree.NoNode {
		t.Errorf("location = %+v", r.Location)
	}
	if r.Category != token.CategorySpelling || r.Text != "Teh" || len(r.Suggestions) != 2 || r.Suggestions[1] != "Ten" {
		t.Errorf("typo = %+v", r)
	}
}

func TestGetMissing(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var e Entry
	if ok, err := c.Get(Key("go", "", nil), &e); ok || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}
	var nilCache *DiskCache
	if ok, err := nilCache.Get(Key("go", "", nil), &e); ok || err != nil {
		t.Fatalf("nil cache Get = %v, %v", ok, err)
	}
	if err := nilCache.Put(Key("go", "", nil), &e); err != nil {
		t.Fatalf("nil cache Put = %v", err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key("go", "", []byte("x"))
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&Entry{Schema: schemaVersion + 1, Language: "go"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	var e Entry
	if ok, err := c.Get(key, &e); ok || err != nil {
		t.Fatalf("Get with old schema = %v, %v", ok, err)
	}
	if e.Language != "" {
		t.Fatalf("stale entry leaked: %+v", e)
	}
}

func TestDropAll(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "prosecheck"))
	if err != nil {
		t.Fatal(err)
	}
	key := Key("go", "", []byte("x"))
	if err := c.Put(key, NewEntry("go", 0, nil, 0)); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	var e Entry
	if ok, _ := c.Get(key, &e); ok {
		t.Fatal("entry survived DropAll")
	}
	// the cache stays usable
	if err := c.Put(key, NewEntry("go", 0, nil, 0)); err != nil {
		t.Fatal(err)
	}
}
