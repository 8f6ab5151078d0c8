// Package config reads prosecheck.toml.
//
// The file is found by walking up from the target directory. Values are
// layered: built-in defaults, then the file, then environment variables for
// addresses and secrets. Command-line flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"prosecheck/internal/token"
)

// FileName is the config file looked up by Find.
const FileName = "prosecheck.toml"

// Environment variables overriding file values.
const (
	EnvRedisAddr     = "PROSECHECK_REDIS_ADDR"
	EnvRedisPassword = "PROSECHECK_REDIS_PASSWORD"
	EnvDictionary    = "PROSECHECK_DICTIONARY"
)

// ErrNotFound is returned by Discover when no config file exists above the
// start directory. The defaults are returned alongside it.
var ErrNotFound = errors.New("no " + FileName + " found")

type Config struct {
	Check CheckConfig `toml:"check"`
	Spell SpellConfig `toml:"spell"`
	Redis RedisConfig `toml:"redis"`
	Cache CacheConfig `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type CheckConfig struct {
	Languages          []string `toml:"languages"`
	DisabledCategories []string `toml:"disabled_categories"`
	DisabledRuleGroups []string `toml:"disabled_rule_groups"`
	DisabledRules      []string `toml:"disabled_rules"`
	Jobs               int      `toml:"jobs"`
	Timeout            string   `toml:"timeout"`
	MaxDiagnostics     int      `toml:"max_diagnostics"`
	Grammar            bool     `toml:"grammar"`
}

type SpellConfig struct {
	Enabled         bool   `toml:"enabled"`
	Dictionary      string `toml:"dictionary"`
	MaxEditDistance int    `toml:"max_edit_distance"`
	TopK            int    `toml:"top_k"`
	MinWordLength   int    `toml:"min_word_length"`
	CacheBytes      int64  `toml:"cache_bytes"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Check: CheckConfig{
			Timeout:        "30s",
			MaxDiagnostics: 1000,
			Grammar:        true,
		},
		Spell: SpellConfig{
			Enabled:         true,
			MaxEditDistance: 2,
			TopK:            5,
			MinWordLength:   3,
			CacheBytes:      8 << 20,
		},
		Redis: RedisConfig{Key: "prosecheck:custom_words"},
		Cache: CacheConfig{Enabled: true},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the config above startDir. Without a file it
// returns the defaults and ErrNotFound.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), ErrNotFound
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result. Relative
// paths inside the file are resolved against its directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("spell", "dictionary") && strings.TrimSpace(cfg.Spell.Dictionary) == "" {
		return nil, fmt.Errorf("%s: [spell].dictionary is empty", path)
	}
	cfg.Path = path
	root := filepath.Dir(path)
	cfg.Spell.Dictionary = resolve(root, cfg.Spell.Dictionary)
	cfg.Cache.Dir = resolve(root, cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// ApplyEnv overrides values from the environment; getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := getenv(EnvDictionary); v != "" {
		c.Spell.Dictionary = v
	}
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must not be negative, got %d", c.Check.MaxDiagnostics)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.DisabledCategories(); err != nil {
		return err
	}
	if c.Spell.MaxEditDistance < 1 || c.Spell.MaxEditDistance > 3 {
		return fmt.Errorf("[spell].max_edit_distance must be between 1 and 3, got %d", c.Spell.MaxEditDistance)
	}
	if c.Spell.TopK < 1 {
		return fmt.Errorf("[spell].top_k must be positive, got %d", c.Spell.TopK)
	}
	if c.Spell.CacheBytes < 0 {
		return fmt.Errorf("[spell].cache_bytes must not be negative, got %d", c.Spell.CacheBytes)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("[redis].db must not be negative, got %d", c.Redis.DB)
	}
	return nil
}

// TimeoutDuration parses [check].timeout; empty or "0" disables the timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	s := strings.TrimSpace(c.Check.Timeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("[check].timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("[check].timeout must not be negative, got %s", d)
	}
	return d, nil
}

// DisabledCategories parses [check].disabled_categories.
func (c *Config) DisabledCategories() ([]token.Category, error) {
	out := make([]token.Category, 0, len(c.Check.DisabledCategories))
	for _, name := range c.Check.DisabledCategories {
		cat, err := token.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("[check].disabled_categories: %w", err)
		}
		out = append(out, cat)
	}
	return out, nil
}

// Fingerprint summarises the settings that change check results; it is
// part of the result cache key.
func (c *Config) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dict=%s;dist=%d;topk=%d;min=%d;grammar=%t;spell=%t",
		c.Spell.Dictionary, c.Spell.MaxEditDistance, c.Spell.TopK, c.Spell.MinWordLength, c.Check.Grammar, c.Spell.Enabled)
	fmt.Fprintf(&b, ";cats=%s;groups=%s;rules=%s",
		strings.Join(c.Check.DisabledCategories, ","),
		strings.Join(c.Check.DisabledRuleGroups, ","),
		strings.Join(c.Check.DisabledRules, ","))
	return b.String()
}
