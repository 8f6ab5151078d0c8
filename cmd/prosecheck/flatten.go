package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"prosecheck/internal/check"
	"prosecheck/internal/driver"
	"prosecheck/internal/flatten"
	"prosecheck/internal/source"
	"prosecheck/internal/strategy"
	"prosecheck/internal/token"
	"prosecheck/internal/tree"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [flags] <file>",
	Short: "Show the flat text handed to the checkers",
	Long: `Flatten prints, for every context root of a file, the flat text, the token
list with behaviors and the offset ledger used to map findings back.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlatten,
}

var rootsCmd = &cobra.Command{
	Use:   "roots [flags] <file>",
	Short: "List the context roots of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoots,
}

func init() {
	flattenCmd.Flags().String("lang", "", "force the language (plaintext|markdown|html|go|python)")
	flattenCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	flattenCmd.Flags().Bool("tokens", true, "include the token list")
	rootsCmd.Flags().String("lang", "", "force the language (plaintext|markdown|html|go|python)")
}

type parsedFile struct {
	fs   *source.FileSet
	file *source.File
	lang string
	tree *tree.Tree
}

func parseOne(ctx context.Context, cmd *cobra.Command, path string) (*parsedFile, error) {
	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSetWithBase(baseDir())
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)
	if lang == "" {
		if lang, err = driver.DetectLanguage(path, file.Content); err != nil {
			return nil, err
		}
	}
	t, err := driver.Parse(ctx, lang, id, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &parsedFile{fs: fs, file: file, lang: lang, tree: t}, nil
}

func runRoots(cmd *cobra.Command, args []string) error {
	p, err := parseOne(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}
	registry := strategy.Default()
	out := cmd.OutOrStdout()
	for _, root := range check.FindRoots(registry, p.lang, p.tree) {
		s, _ := registry.ForRoot(p.lang, p.tree, root)
		span := p.tree.Span(root)
		start, end := p.fs.Resolve(span)
		fmt.Fprintf(out, "%s:%d:%d-%d:%d %s (%s) %q\n",
			p.fs.DisplayPath(p.file), start.Line, start.Col, end.Line, end.Col,
			p.tree.Kind(root), s.Name(), clipText(string(p.fs.Text(span)), 48))
	}
	return nil
}

type flatRootJSON struct {
	Root     uint32      `json:"root"`
	Kind     string      `json:"kind"`
	Strategy string      `json:"strategy"`
	Start    uint32      `json:"start"`
	End      uint32      `json:"end"`
	Text     string      `json:"text"`
	Stealth  [][2]int    `json:"stealth,omitempty"`
	Shifts   [][2]int    `json:"shifts,omitempty"`
	Tokens   []tokenJSON `json:"tokens,omitempty"`
}

type tokenJSON struct {
	Node     uint32 `json:"node"`
	Kind     string `json:"kind"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Behavior string `json:"behavior"`
	Groups   string `json:"ignored_groups,omitempty"`
	Cats     string `json:"ignored_categories,omitempty"`
}

func runFlatten(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	withTokens, err := cmd.Flags().GetBool("tokens")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	ctx := cmd.Context()
	p, err := parseOne(ctx, cmd, args[0])
	if err != nil {
		return err
	}

	registry := strategy.Default()
	var roots []flatRootJSON
	for _, root := range check.FindRoots(registry, p.lang, p.tree) {
		s, _ := registry.ForRoot(p.lang, p.tree, root)
		res, err := flatten.Flatten(ctx, p.tree, root, strategy.Safe(s, nil), flatten.WithContextRoots(registry.ContextRoots(p.lang)))
		if err != nil {
			return fmt.Errorf("flatten root %d: %w", root, err)
		}
		roots = append(roots, describeRoot(p.tree, s, res, withTokens))
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(roots)
	}
	printFlatPretty(out, roots)
	return nil
}

func describeRoot(t *tree.Tree, s strategy.Strategy, res *flatten.Result, withTokens bool) flatRootJSON {
	r := flatRootJSON{
		Root:     uint32(res.Root),
		Kind:     string(t.Kind(res.Root)),
		Strategy: s.Name(),
		Start:    res.RootSpan.Start,
		End:      res.RootSpan.End,
		Text:     res.Text,
	}
	for _, st := range s.StealthRanges(t, res.Root, res.Text) {
		r.Stealth = append(r.Stealth, [2]int{st.Start, st.End})
	}
	for _, sh := range res.Shifts {
		r.Shifts = append(r.Shifts, [2]int{sh.FlatPosition, sh.OriginalLength})
	}
	if withTokens {
		for _, tok := range res.Tokens {
			r.Tokens = append(r.Tokens, tokenJSON{
				Node:     uint32(tok.Node),
				Kind:     string(t.Kind(tok.Node)),
				Start:    tok.Range.Start,
				End:      tok.Range.End,
				Behavior: tok.Behavior.String(),
				Groups:   ignoredGroups(tok),
				Cats:     ignoredCats(tok),
			})
		}
	}
	return r
}

func ignoredGroups(tok token.TokenInfo) string {
	if tok.IgnoredRuleGroups.Empty() {
		return ""
	}
	return tok.IgnoredRuleGroups.String()
}

func ignoredCats(tok token.TokenInfo) string {
	if tok.IgnoredCategories.Empty() {
		return ""
	}
	return tok.IgnoredCategories.String()
}

func printFlatPretty(out io.Writer, roots []flatRootJSON) {
	for i, r := range roots {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "root #%d %s [%d,%d) strategy=%s\n", r.Root, r.Kind, r.Start, r.End, r.Strategy)
		fmt.Fprintf(out, "  flat:    %s\n", strconv.Quote(r.Text))
		if len(r.Shifts) > 0 {
			fmt.Fprint(out, "  shifts: ")
			for _, sh := range r.Shifts {
				fmt.Fprintf(out, " @%d-%d", sh[0], sh[1])
			}
			fmt.Fprintln(out)
		}
		if len(r.Stealth) > 0 {
			fmt.Fprint(out, "  stealth:")
			for _, st := range r.Stealth {
				fmt.Fprintf(out, " [%d,%d)", st[0], st[1])
			}
			fmt.Fprintln(out)
		}
		for _, tok := range r.Tokens {
			fmt.Fprintf(out, "  %-8s [%d,%d) %s", tok.Behavior, tok.Start, tok.End, tok.Kind)
			if tok.Groups != "" {
				fmt.Fprintf(out, " groups=%s", tok.Groups)
			}
			if tok.Cats != "" {
				fmt.Fprintf(out, " categories=%s", tok.Cats)
			}
			fmt.Fprintln(out)
		}
	}
}

func clipText(s string, n int) string {
	return runewidth.Truncate(s, n, "…")
}
