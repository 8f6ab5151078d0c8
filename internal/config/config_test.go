package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prosecheck/internal/token"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := filepath.Join(nested, "intro.md")
	if err := os.WriteFile(doc, []byte("# Intro\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{nested, doc} {
		got, ok, err := Find(start)
		if err != nil || !ok {
			t.Fatalf("Find(%s) = %q, %v, %v", start, got, ok, err)
		}
		if got != want {
			t.Errorf("Find(%s) = %q, want %q", start, got, want)
		}
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if cfg == nil || cfg.Spell.TopK != 5 || cfg.Path != "" {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[check]
languages = ["markdown", "go"]
disabled_categories = ["Typography"]
disabled_rule_groups = ["quotes"]
jobs = 4
timeout = "2s"

[spell]
dictionary = "dict/en.txt"
top_k = 3

[redis]
addr = "localhost:6379"
db = 2

[cache]
dir = ".cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if len(cfg.Check.Languages) != 2 || cfg.Check.Jobs != 4 {
		t.Errorf("check = %+v", cfg.Check)
	}
	if d, _ := cfg.TimeoutDuration(); d != 2*time.Second {
		t.Errorf("timeout = %v", d)
	}
	cats, err := cfg.DisabledCategories()
	if err != nil || len(cats) != 1 || cats[0] != token.CategoryTypography {
		t.Errorf("categories = %v, %v", cats, err)
	}
	if cfg.Spell.Dictionary != filepath.Join(dir, "dict", "en.txt") {
		t.Errorf("dictionary = %q", cfg.Spell.Dictionary)
	}
	if cfg.Cache.Dir != filepath.Join(dir, ".cache") {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	// untouched keys keep their defaults
	if cfg.Spell.MaxEditDistance != 2 || cfg.Redis.Key != "prosecheck:custom_words" || !cfg.Check.Grammar {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Spell.TopK != 3 || cfg.Redis.DB != 2 || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("values lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"syntax", "[check\n", "failed to parse TOML"},
		{"unknown key", "[check]\ncolour = true\n", "unknown keys: check.colour"},
		{"bad category", "[check]\ndisabled_categories = [\"prose\"]\n", "unknown category"},
		{"bad timeout", "[check]\ntimeout = \"soon\"\n", "[check].timeout"},
		{"negative jobs", "[check]\njobs = -1\n", "[check].jobs"},
		{"distance", "[spell]\nmax_edit_distance = 9\n", "max_edit_distance"},
		{"empty dictionary", "[spell]\ndictionary = \" \"\n", "[spell].dictionary is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Redis.Addr = "file:6379"
	env := map[string]string{
		EnvRedisAddr:  "env:6379",
		EnvDictionary: "/usr/share/dict/words.txt",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Redis.Addr != "env:6379" || cfg.Spell.Dictionary != "/usr/share/dict/words.txt" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Redis.Password != "" {
		t.Fatalf("unset variable overrode password")
	}
}

func TestFingerprint(t *testing.T) {
	a, b := Default(), Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal configs differ")
	}
	b.Check.DisabledRules = []string{"A_VS_AN"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("disabled rules not in fingerprint")
	}
	b = Default()
	b.Check.Jobs = 16
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("jobs must not change results")
	}
}
