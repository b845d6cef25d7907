package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/BaSui01/gramflow/analysis"
	"github.com/BaSui01/gramflow/config"
	"github.com/BaSui01/gramflow/index"
	"github.com/BaSui01/gramflow/internal/metrics"
)

// runIndex analyzes the given files concurrently and stores their postings.
// Each file becomes one document committed in one transaction, so a failed
// file never leaves partial postings behind.
func runIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	concurrency := fs.Int("concurrency", runtime.NumCPU(), "Files analyzed in parallel")
	byteRate := fs.Int("rate", 0, "Read rate limit in bytes per second, 0 for unlimited")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "index: no input files")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector("gramflow", reg, logger)
		srv := startMetricsServer(cfg.Metrics, reg, logger)
		defer srv.Close()
	}

	store, err := index.Open(cfg.Index.Path, logger)
	if err != nil {
		logger.Fatal("open index", zap.Error(err))
	}
	defer store.Close()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)

	var limiter *rate.Limiter
	if *byteRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(*byteRate), *byteRate)
	}

	for _, path := range fs.Args() {
		path := path
		g.Go(func() error {
			return indexFile(ctx, cfg, store, collector, limiter, path, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("indexing failed", zap.Error(err))
	}

	n, err := store.DocumentCount()
	if err != nil {
		logger.Fatal("count documents", zap.Error(err))
	}
	logger.Info("indexing complete",
		zap.Int("files", fs.NArg()),
		zap.Int64("documents_total", n))
}

func indexFile(ctx context.Context, cfg *config.Config, store *index.Store,
	collector *metrics.Collector, limiter *rate.Limiter, path string, logger *zap.Logger) error {

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var in io.Reader = f
	if limiter != nil {
		in = &limitedReader{r: f, limiter: limiter, ctx: ctx}
	}
	if collector != nil {
		in = &countingReader{r: in, collector: collector}
	}

	tok, err := newTokenizer(cfg.Analyzer, logger)
	if err != nil {
		return err
	}
	if err := tok.Reset(in); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}

	w := store.NewWriter(path, collector).WithBatchSize(cfg.Index.BatchSize)
	start := time.Now()
	if err := analysis.Drain(tok, w); err != nil {
		w.Abort()
		if collector != nil {
			collector.ObserveAnalysis(time.Since(start), "error")
		}
		return fmt.Errorf("analyze %s: %w", path, err)
	}
	if collector != nil {
		collector.ObserveAnalysis(time.Since(start), "ok")
	}
	return nil
}

// runTerms prints the most frequent terms across all indexed documents.
func runTerms(args []string) {
	fs := flag.NewFlagSet("terms", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	top := fs.Int("top", 10, "Number of terms to print")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	store, err := index.Open(cfg.Index.Path, logger)
	if err != nil {
		logger.Fatal("open index", zap.Error(err))
	}
	defer store.Close()

	terms, err := store.TopTerms(*top)
	if err != nil {
		logger.Fatal("aggregate terms", zap.Error(err))
	}
	for _, tc := range terms {
		fmt.Printf("%8d  %s\n", tc.Count, tc.Term)
	}
}

func startMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}

// limitedReader throttles reads to the shared byte-rate limiter.
type limitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// countingReader feeds the bytes-read counter.
type countingReader struct {
	r         io.Reader
	collector *metrics.Collector
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.collector.AddBytesRead(n)
	}
	return n, err
}
