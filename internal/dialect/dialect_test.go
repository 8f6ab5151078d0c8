package dialect

import (
	"strings"
	"testing"

	"prosecheck/internal/tree"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Kind
	}{
		{
			"go",
			"package main\n\nimport \"fmt\"\n\nfunc main() {\n\tmsg := \"hi\"\n\tfmt.Println(msg)\n}\n",
			Go,
		},
		{
			"python shebang",
			"#!/usr/bin/env python3\nimport os\n\ndef main():\n    return None\n",
			Python,
		},
		{
			"python class",
			"from typing import List\n\nclass Greeter:\n    def greet(self, name):\n        self.name = name\n",
			Python,
		},
		{
			"markdown",
			"# Project\n\nSee the [guide](docs/guide.md).\n\n- one\n- two\n\n```sh\nmake\n```\n",
			Markdown,
		},
		{
			"markdown setext",
			"Title\n=====\n\nSome **bold** text and a [link](https://example.com).\n",
			Markdown,
		},
		{
			"html",
			"<!DOCTYPE html>\n<html>\n<body>\n<p>Hello</p>\n</body>\n</html>\n",
			HTML,
		},
		{
			"prose",
			"The package arrived late.\nWe will import more tea from India next year.\nDef Leppard played loud.\n",
			Unknown,
		},
		{"empty", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, e := Detect(1, []byte(tt.content))
			if c.Kind != tt.want {
				t.Fatalf("Detect() = %v (%s), want %v", c.Kind, Explain(c, e), tt.want)
			}
		})
	}
}

func TestKindLanguage(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Go, tree.LanguageGo},
		{Python, tree.LanguagePython},
		{Markdown, tree.LanguageMarkdown},
		{HTML, tree.LanguageHTML},
		{Unknown, tree.LanguagePlainText},
	}
	for _, tt := range tests {
		if got := tt.k.Language(); got != tt.want {
			t.Errorf("%v.Language() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestClassifierThresholds(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Dialect: Markdown, Score: 3, Reason: "markdown heading"})
	e.Add(Hint{Dialect: Python, Score: 2, Reason: "python `self.` access"})

	loose := Classifier{}.Classify(e)
	if loose.Kind != Markdown || loose.RunnerUp != Python || loose.TotalScore != 5 {
		t.Fatalf("loose = %+v", loose)
	}
	strict := DefaultClassifier.Classify(e)
	if strict.Kind != Unknown || strict.Best != Markdown {
		t.Fatalf("strict = %+v", strict)
	}
	if msg := Explain(strict, e); !strings.Contains(msg, "best guess markdown") {
		t.Fatalf("Explain = %q", msg)
	}
}

func TestExplainListsReasons(t *testing.T) {
	c, e := Detect(1, []byte("# Title\n\n[a](b) and [c](d)\n"))
	got := Explain(c, e)
	want := "markdown (score 6, 100%): markdown heading, markdown link"
	if got != want {
		t.Fatalf("Explain = %q, want %q", got, want)
	}
}

func TestCollectSpans(t *testing.T) {
	e := Collect(4, []byte("text\n<!DOCTYPE html>\n"))
	hints := e.Hints()
	if len(hints) != 1 {
		t.Fatalf("hints = %+v", hints)
	}
	if sp := hints[0].Span; sp.File != 4 || sp.Start != 5 || sp.End != 20 {
		t.Fatalf("span = %v", hints[0].Span)
	}
}
