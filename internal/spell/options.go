package spell

// Config tunes candidate scoring and word filtering.
type Config struct {
	MaxEditDistance int
	TopK            int
	// MinWordLength skips words with fewer runes.
	MinWordLength   int
	FreqTemperature float64
	// Beta weights the log prior, Lambda the weighted edit cost.
	Beta   float64
	Lambda float64
	Costs  Costs
	// CacheBytes bounds the suggestion cache; 0 disables it.
	CacheBytes int64
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxEditDistance: 2,
		TopK:            5,
		MinWordLength:   3,
		FreqTemperature: 1.5,
		Beta:            1.0,
		Lambda:          2.0,
		Costs:           DefaultCosts,
		CacheBytes:      8 << 20,
	}
}

// Option configures a Checker.
type Option func(*Checker)

// WithConfig replaces the scoring configuration.
func WithConfig(cfg Config) Option {
	return func(c *Checker) { c.cfg = cfg }
}

// WithStore consults store for custom words.
func WithStore(store WordStore) Option {
	return func(c *Checker) { c.store = store }
}

// WithMaxEditDistance limits suggestion candidates.
func WithMaxEditDistance(n int) Option {
	return func(c *Checker) { c.cfg.MaxEditDistance = n }
}

// WithTopK limits the number of suggestions per word.
func WithTopK(k int) Option {
	return func(c *Checker) { c.cfg.TopK = k }
}

// WithMinWordLength skips words shorter than n runes.
func WithMinWordLength(n int) Option {
	return func(c *Checker) { c.cfg.MinWordLength = n }
}

// WithCacheBytes bounds the suggestion cache; 0 disables it.
func WithCacheBytes(n int64) Option {
	return func(c *Checker) { c.cfg.CacheBytes = n }
}
