package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: DefaultAnalyzerConfig(),
		Index:    DefaultIndexConfig(),
		Cache:    DefaultCacheConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// DefaultAnalyzerConfig returns the default analyzer configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinGram:    1,
		MaxGram:    2,
		Delimiters: " \t\n\r",
	}
}

// DefaultIndexConfig returns the default index configuration.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		Path:      "gramflow.db",
		BatchSize: 500,
	}
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    false,
		Addr:       "localhost:6379",
		DB:         0,
		DefaultTTL: 30 * time.Minute,
	}
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: false,
		Addr:    ":9091",
	}
}

// DefaultLogConfig returns the default log configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
	}
}
