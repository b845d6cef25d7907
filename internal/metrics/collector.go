package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds the pipeline metrics.
type Collector struct {
	// Analysis metrics
	tokensIndexed    prometheus.Counter
	bytesRead        prometheus.Counter
	analysisDuration *prometheus.HistogramVec

	// Index metrics
	indexBatchDuration prometheus.Histogram
	indexBatchSize     prometheus.Histogram

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	logger *zap.Logger
}

// NewCollector creates a collector registering all metrics under namespace
// on reg. A nil reg uses the default registerer.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	return &Collector{
		tokensIndexed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_indexed_total",
			Help:      "Total number of tokens written to the index.",
		}),
		bytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Total bytes read from analyzed sources.",
		}),
		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to analyze one document end to end.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		indexBatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_batch_duration_seconds",
			Help:      "Time to insert one posting batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		indexBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_batch_size",
			Help:      "Number of postings per inserted batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Token-count cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Token-count cache misses.",
		}),
		logger: logger,
	}
}

// AddTokensIndexed records n tokens committed to the index.
func (c *Collector) AddTokensIndexed(n int) {
	c.tokensIndexed.Add(float64(n))
}

// AddBytesRead records n bytes consumed from a source.
func (c *Collector) AddBytesRead(n int) {
	c.bytesRead.Add(float64(n))
}

// ObserveAnalysis records the duration of one document analysis.
func (c *Collector) ObserveAnalysis(d time.Duration, outcome string) {
	c.analysisDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveIndexBatch records one posting batch insert.
func (c *Collector) ObserveIndexBatch(d time.Duration, size int) {
	c.indexBatchDuration.Observe(d.Seconds())
	c.indexBatchSize.Observe(float64(size))
}

// CacheHit records a token-count cache hit.
func (c *Collector) CacheHit() { c.cacheHits.Inc() }

// CacheMiss records a token-count cache miss.
func (c *Collector) CacheMiss() { c.cacheMisses.Inc() }
