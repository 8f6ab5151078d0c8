package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"prosecheck/internal/cache"
	"prosecheck/internal/check"
	"prosecheck/internal/config"
	"prosecheck/internal/grammar"
	"prosecheck/internal/spell"
	"prosecheck/internal/strategy"
)

const redisPingTimeout = 2 * time.Second

func configFileName() string { return config.FileName }

// addCheckerFlags registers the flags shared by commands that run checks.
func addCheckerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("lang", "", "force the language of every file (plaintext|markdown|html|go|python)")
	f.Int("jobs", 0, "files checked in parallel (0 uses the config value or GOMAXPROCS)")
	f.StringSlice("disable-category", nil, "drop findings of a category (casing|spelling|grammar|punctuation|typography|style|other)")
	f.StringSlice("disable-group", nil, "drop findings of a rule group")
	f.StringSlice("disable-rule", nil, "turn off a rule by id")
	f.String("dictionary", "", "word frequency list for spelling")
	f.Bool("no-spell", false, "skip spelling")
	f.Bool("no-grammar", false, "skip grammar rules")
	f.String("timeout", "", "per-file time limit, e.g. 10s (0 disables)")
	f.Bool("cache", true, "reuse results of unchanged files")
	f.Bool("clear-cache", false, "drop cached results before checking")
}

// loadConfig reads the config for target and layers environment variables
// and flags on top.
func loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(target)
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	changed := func(name string) bool {
		fl := f.Lookup(name)
		return fl != nil && fl.Changed
	}
	var err error
	if changed("jobs") {
		if cfg.Check.Jobs, err = f.GetInt("jobs"); err != nil {
			return err
		}
	}
	if changed("disable-category") {
		cats, err := f.GetStringSlice("disable-category")
		if err != nil {
			return err
		}
		cfg.Check.DisabledCategories = append(cfg.Check.DisabledCategories, cats...)
	}
	if changed("disable-group") {
		groups, err := f.GetStringSlice("disable-group")
		if err != nil {
			return err
		}
		cfg.Check.DisabledRuleGroups = append(cfg.Check.DisabledRuleGroups, groups...)
	}
	if changed("disable-rule") {
		rules, err := f.GetStringSlice("disable-rule")
		if err != nil {
			return err
		}
		cfg.Check.DisabledRules = append(cfg.Check.DisabledRules, rules...)
	}
	if changed("dictionary") {
		if cfg.Spell.Dictionary, err = f.GetString("dictionary"); err != nil {
			return err
		}
	}
	if changed("no-spell") {
		off, err := f.GetBool("no-spell")
		if err != nil {
			return err
		}
		cfg.Spell.Enabled = !off
	}
	if changed("no-grammar") {
		off, err := f.GetBool("no-grammar")
		if err != nil {
			return err
		}
		cfg.Check.Grammar = !off
	}
	if changed("timeout") {
		if cfg.Check.Timeout, err = f.GetString("timeout"); err != nil {
			return err
		}
	}
	if changed("cache") {
		if cfg.Cache.Enabled, err = f.GetBool("cache"); err != nil {
			return err
		}
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	if maxDiag > 0 {
		cfg.Check.MaxDiagnostics = maxDiag
	}
	return nil
}

// session holds the checkers built from a config.
type session struct {
	cfg     *config.Config
	checker *check.Checker
	spell   *spell.Checker
	store   spell.WordStore
	redis   *redis.Client
	cache   *cache.DiskCache
	// settings fingerprints everything besides file content that changes
	// results; it is part of the cache key.
	settings string
	notes    []string
}

func newSession(ctx context.Context, cfg *config.Config, clearCache bool) (*session, error) {
	s := &session{cfg: cfg}
	var externals []check.ExternalChecker

	if cfg.Spell.Enabled && !slices.Contains(cfg.Check.DisabledRules, spell.RuleUnknownWord) {
		sc, err := s.openSpell(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
		if sc != nil {
			s.spell = sc
			externals = append(externals, sc)
		}
	}
	if cfg.Check.Grammar {
		externals = append(externals, grammar.New(grammar.DisableRule(cfg.Check.DisabledRules...)))
	}
	if len(externals) == 0 {
		s.Close()
		return nil, errors.New("nothing to check: spelling and grammar are both off")
	}

	cats, err := cfg.DisabledCategories()
	if err != nil {
		s.Close()
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.checker = check.New(strategy.Default(), check.Multi(externals...),
		check.WithDisabledCategories(cats...),
		check.WithDisabledRuleGroups(cfg.Check.DisabledRuleGroups...),
		check.WithTimeout(timeout),
		check.WithJobs(cfg.Check.Jobs),
	)

	if cfg.Cache.Enabled {
		s.openCache(clearCache)
	}
	s.settings = s.fingerprint(ctx)
	return s, nil
}

func (s *session) note(format string, args ...any) {
	s.notes = append(s.notes, fmt.Sprintf(format, args...))
}

// openSpell loads the dictionary and connects the custom word store. A
// missing dictionary turns spelling off with a note; an unreachable redis
// leaves spelling on without custom words.
func (s *session) openSpell(ctx context.Context) (*spell.Checker, error) {
	cfg := s.cfg
	if cfg.Spell.Dictionary == "" {
		s.note("spelling is off: no dictionary configured (set [spell].dictionary, %s or --dictionary)", config.EnvDictionary)
		return nil, nil
	}
	dict, err := spell.LoadDictionary(cfg.Spell.Dictionary, cfg.Spell.MaxEditDistance)
	if err != nil {
		return nil, err
	}
	opts := []spell.Option{
		spell.WithMaxEditDistance(cfg.Spell.MaxEditDistance),
		spell.WithTopK(cfg.Spell.TopK),
		spell.WithMinWordLength(cfg.Spell.MinWordLength),
		spell.WithCacheBytes(cfg.Spell.CacheBytes),
	}
	if cfg.Redis.Addr != "" {
		store, err := s.openRedis(ctx)
		if err != nil {
			s.note("custom words unavailable: %v", err)
		} else {
			s.store = store
			opts = append(opts, spell.WithStore(store))
		}
	}
	return spell.New(dict, opts...)
}

func (s *session) openRedis(ctx context.Context) (*spell.RedisStore, error) {
	cfg := s.cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	store := spell.NewRedisStore(client, cfg.Key)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	s.redis = client
	return store, nil
}

func (s *session) openCache(clear bool) {
	var (
		c   *cache.DiskCache
		err error
	)
	if s.cfg.Cache.Dir != "" {
		c, err = cache.Open(s.cfg.Cache.Dir)
	} else {
		c, err = cache.OpenDefault("prosecheck")
	}
	if err != nil {
		s.note("result cache disabled: %v", err)
		return
	}
	if clear {
		if err := c.DropAll(); err != nil {
			s.note("failed to clear result cache: %v", err)
		}
	}
	s.cache = c
}

// fingerprint extends the config fingerprint with the dictionary file's
// size and mtime and a digest of the custom words, so editing either
// invalidates cached results.
func (s *session) fingerprint(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(s.cfg.Fingerprint())
	if s.spell == nil {
		b.WriteString(";nospell")
	} else if info, err := os.Stat(s.cfg.Spell.Dictionary); err == nil {
		fmt.Fprintf(&b, ";dictstat=%d/%d", info.Size(), info.ModTime().UnixNano())
	}
	if s.store != nil {
		words, err := s.store.All(ctx)
		if err != nil {
			// unknown custom words: never reuse cached results
			s.note("result cache bypassed: %v", err)
			s.cache = nil
		} else {
			digest := cache.Key("custom-words", "", []byte(strings.Join(words, "\n")))
			b.WriteString(";words=" + digest.String()[:16])
		}
	}
	return b.String()
}

// Close releases the suggestion cache and the redis connection.
func (s *session) Close() {
	if s.spell != nil {
		s.spell.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func printNotes(cmd *cobra.Command, notes []string) {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return
	}
	for _, n := range notes {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", n)
	}
}

// targetDir is the directory the config search starts from.
func targetDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	p := paths[0]
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return filepath.Dir(p)
	}
	return p
}
