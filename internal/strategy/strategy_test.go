package strategy

import (
	"slices"
	"testing"

	"prosecheck/internal/testkit"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

type panicky struct{ Base }

func (panicky) Name() string { return "panicky" }

func (panicky) Behavior(*tree.Tree, tree.NodeID, tree.NodeID) token.Behavior { panic("boom") }

func (panicky) IgnoredCategories(*tree.Tree, tree.NodeID, tree.NodeID) (token.CategorySet, bool) {
	panic("boom")
}

func (panicky) ReplacementRules(*tree.Tree, tree.NodeID) []CharRule {
	return []CharRule{func([]byte, rune) rune { panic("rule") }, replaceRune('a', 'b')}
}

func TestSafeDegrades(t *testing.T) {
	tr := testkit.Build("test", testkit.N("doc", testkit.L("text", "abc")))
	var methods []string
	s := Safe(panicky{}, func(method string, _ tree.NodeID, _ any) {
		methods = append(methods, method)
	})

	if got := s.Behavior(tr, 0, 1); got != token.Absorb {
		t.Errorf("Behavior after panic = %v, want absorb", got)
	}
	if _, ok := s.IgnoredCategories(tr, 0, 1); ok {
		t.Error("panicking IgnoredCategories must inherit")
	}
	rules := s.ReplacementRules(tr, 0)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if got := rules[0](nil, 'x'); got != 'x' {
		t.Errorf("panicking rule changed rune to %q", got)
	}
	if got := rules[1](nil, 'a'); got != 'b' {
		t.Errorf("rule = %q, want 'b'", got)
	}
	want := []string{"Behavior", "IgnoredCategories", "CharRule"}
	if !slices.Equal(methods, want) {
		t.Errorf("handler saw %v, want %v", methods, want)
	}
	if Unwrap(Safe(s, nil)) != (panicky{}) {
		t.Error("Safe must not double wrap")
	}
}

func TestRegistryForRoot(t *testing.T) {
	reg := Default()
	if got := reg.Languages(); !slices.Equal(got, []string{"go", "html", "markdown", "plaintext", "python"}) {
		t.Fatalf("languages = %v", got)
	}
	tr, err := tree.ParsePlainText(1, []byte("One line.\n\nTwo line.\n"))
	if err != nil {
		t.Fatal(err)
	}
	para := testkit.Find(tr, tree.KindParagraph)
	s, ok := reg.ForRoot(tree.LanguagePlainText, tr, para)
	if !ok || s.Name() != "plain" {
		t.Fatalf("ForRoot(paragraph) = %v, %v", s, ok)
	}
	if _, ok := reg.ForRoot(tree.LanguagePlainText, tr, tr.Root()); ok {
		t.Error("document must not be a plain text root")
	}
	if _, ok := reg.ForRoot("cobol", tr, para); ok {
		t.Error("unknown language must have no strategy")
	}
}

func element(tag string, inner ...testkit.Spec) testkit.Spec {
	children := []testkit.Spec{testkit.N("start_tag", testkit.L("<", "<"), testkit.L("tag_name", tag), testkit.L(">", ">"))}
	children = append(children, inner...)
	children = append(children, testkit.N("end_tag", testkit.L("</", "</"), testkit.L("tag_name", tag), testkit.L(">", ">")))
	return testkit.N("element", children...)
}

func TestMarkupPolicies(t *testing.T) {
	tr := testkit.Build(tree.LanguageHTML, testkit.N("document",
		element("p",
			testkit.L("text", "Use "),
			element("abbr", testkit.L("text", "nasa")),
			testkit.L("text", " and "),
			element("code", testkit.L("text", "x := 1")),
			element("q", testkit.L("text", "hi")),
		),
	))
	m := Markup{}
	doc := tr.Root()
	p := testkit.Find(tr, "element")
	if !m.IsContextRoot(tr, doc) || !m.IsContextRoot(tr, p) {
		t.Fatal("document and <p> are roots")
	}
	abbr := testkit.FindNth(tr, "element", 1)
	code := testkit.FindNth(tr, "element", 2)
	q := testkit.FindNth(tr, "element", 3)
	if got := m.Behavior(tr, p, code); got != token.Absorb {
		t.Errorf("<code> behavior = %v", got)
	}
	if got := m.Behavior(tr, p, testkit.Find(tr, "start_tag")); got != token.Absorb {
		t.Errorf("start tag behavior = %v", got)
	}
	if cats, ok := m.IgnoredCategories(tr, p, abbr); !ok || !cats.Has(token.CategoryCasing) {
		t.Errorf("<abbr> categories = %v, %v", cats, ok)
	}
	if groups, ok := m.IgnoredRuleGroups(tr, p, q); !ok || !groups.Has(token.GroupQuotes) {
		t.Errorf("<q> groups = %v, %v", groups, ok)
	}
	if _, ok := m.IgnoredCategories(tr, p, p); ok {
		t.Error("<p> must inherit categories")
	}
}

func TestGoCommentStealth(t *testing.T) {
	tests := []struct {
		name string
		flat string
		want []token.Range
	}{
		{"line", "// Hello there", []token.Range{{Start: 0, End: 2}}},
		{"directive", "//go:generate stringer", []token.Range{{Start: 0, End: 22}}},
		{"block", "/* one\n * two */", []token.Range{{Start: 0, End: 2}, {Start: 14, End: 16}, {Start: 7, End: 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commentStealth(tt.flat)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("commentStealth(%q) = %v, want %v", tt.flat, got, tt.want)
			}
		})
	}
}

func TestFormatVerbs(t *testing.T) {
	flat := `"loaded %d files from %[2]q (100%%)"`
	got := formatVerbRanges(flat)
	want := []token.Range{{Start: 8, End: 10}, {Start: 22, End: 27}, {Start: 32, End: 34}}
	if !slices.Equal(got, want) {
		t.Fatalf("formatVerbRanges = %v, want %v", got, want)
	}
}

func TestMarkdownStealth(t *testing.T) {
	flat := "Run `go test` and see [docs](https://x.io) for **more**.\n  next"
	got := Markdown{}.StealthRanges(nil, 0, flat)
	for _, want := range []token.Range{
		{Start: 4, End: 13},  // `go test`
		{Start: 27, End: 42}, // ](https://x.io)
		{Start: 47, End: 49}, // **
		{Start: 53, End: 55}, // **
		{Start: 57, End: 59}, // indentation
	} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %v in %v", want, got)
		}
	}
	if rs := emphasisMarkers("snake_case"); len(rs) != 0 {
		t.Errorf("intra-word underscore treated as markup: %v", rs)
	}
}

func TestPythonPolicies(t *testing.T) {
	tr := testkit.Build(tree.LanguagePython, testkit.N("module",
		testkit.N("expression_statement",
			testkit.N("string", testkit.L("string_start", `"""`), testkit.L("string_content", "Doc."), testkit.L("string_end", `"""`)),
		),
		testkit.N("call",
			testkit.N("string", testkit.L("string_start", `f"`), testkit.L("string_content", "x "),
				testkit.N("interpolation", testkit.L("{", "{"), testkit.L("identifier", "v"), testkit.L("}", "}")),
				testkit.L("string_end", `"`)),
		),
	))
	p := Python{}
	doc := testkit.Find(tr, "string")
	fstr := testkit.FindNth(tr, "string", 1)
	if _, ok := p.IgnoredCategories(tr, doc, doc); ok {
		t.Error("docstring must keep every category")
	}
	if cats, ok := p.IgnoredCategories(tr, fstr, fstr); !ok || !cats.Has(token.CategoryCasing) {
		t.Errorf("string categories = %v, %v", cats, ok)
	}
	if got := p.Behavior(tr, fstr, testkit.Find(tr, "interpolation")); got != token.Absorb {
		t.Errorf("interpolation behavior = %v", got)
	}
	if got := p.Behavior(tr, fstr, testkit.Find(tr, "string_start")); got != token.Stealth {
		t.Errorf("string_start behavior = %v", got)
	}
	if got := p.StealthRanges(tr, testkit.Find(tr, "comment"), "x"); got != nil {
		t.Errorf("non-root stealth = %v", got)
	}
}

func TestLanguageReplacementRules(t *testing.T) {
	tr := testkit.Build("test", testkit.N("doc", testkit.L("text", "x")))
	strategies := []Strategy{Plain{}, Markdown{}, Markup{}, GoSource{}, Python{}}
	cases := []struct {
		in, want rune
	}{
		{'\t', ' '},
		{'\r', ' '},
		{'\n', '\n'},
		{'\u00a0', '\u00a0'},
		{'a', 'a'},
	}
	for _, s := range strategies {
		rules := s.ReplacementRules(tr, tr.Root())
		for _, tc := range cases {
			got := tc.in
			for _, rule := range rules {
				got = rule(nil, got)
			}
			if got != tc.want {
				t.Errorf("%s: %U -> %U, want %U", s.Name(), tc.in, got, tc.want)
			}
		}
	}
}
