package config

import "time"

// Config is the complete gramflow configuration.
type Config struct {
	// Analyzer tokenizer settings
	Analyzer AnalyzerConfig `yaml:"analyzer" env:"ANALYZER"`

	// Index storage settings
	Index IndexConfig `yaml:"index" env:"INDEX"`

	// Cache token-count cache settings
	Cache CacheConfig `yaml:"cache" env:"CACHE"`

	// Metrics exposure settings
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`

	// Log settings
	Log LogConfig `yaml:"log" env:"LOG"`
}

// AnalyzerConfig configures the n-gram tokenizer.
type AnalyzerConfig struct {
	// Minimum gram length in code points.
	MinGram int `yaml:"min_gram" env:"MIN_GRAM"`
	// Maximum gram length in code points.
	MaxGram int `yaml:"max_gram" env:"MAX_GRAM"`
	// Emit truncated grams from runs shorter than min_gram.
	KeepShortTerm bool `yaml:"keep_short_term" env:"KEEP_SHORT_TERM"`
	// Emit whole runs longer than max_gram as single tokens.
	KeepLongTerm bool `yaml:"keep_long_term" env:"KEEP_LONG_TERM"`
	// Emit only grams anchored at run starts.
	Edge bool `yaml:"edge" env:"EDGE"`
	// Characters treated as token boundaries. Empty means none,
	// every character is part of a token.
	Delimiters string `yaml:"delimiters" env:"DELIMITERS"`
}

// IndexConfig configures the posting store.
type IndexConfig struct {
	// SQLite database path.
	Path string `yaml:"path" env:"PATH"`
	// Postings per insert batch.
	BatchSize int `yaml:"batch_size" env:"BATCH_SIZE"`
}

// CacheConfig configures the redis token-count cache.
type CacheConfig struct {
	// Whether the cache is used at all.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Redis address.
	Addr string `yaml:"addr" env:"ADDR"`
	// Password, empty for none.
	Password string `yaml:"password" env:"PASSWORD"`
	// Database number.
	DB int `yaml:"db" env:"DB"`
	// Expiration for cached counts.
	DefaultTTL time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Whether to serve /metrics.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Listen address for the metrics server.
	Addr string `yaml:"addr" env:"ADDR"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console.
	Format string `yaml:"format" env:"FORMAT"`
}
