package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/gramflow/internal/cache"
	"github.com/BaSui01/gramflow/tokencount"
)

// runCount prints the model token count of a file or stdin. With the cache
// enabled, counts are memoized by content hash so repeated runs over the
// same document skip the encoder.
func runCount(args []string) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	model := fs.String("model", "", "Model name, empty for the character estimator")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	tokencount.RegisterOpenAICounters()
	counter := tokencount.GetCounterOrEstimator(*model)

	ctx := context.Background()
	var mgr *cache.Manager
	var hash string
	if cfg.Cache.Enabled {
		mgr, err = cache.NewManager(cache.Config{
			Addr:       cfg.Cache.Addr,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			DefaultTTL: cfg.Cache.DefaultTTL,
		}, logger)
		if err != nil {
			logger.Warn("token count cache unavailable", zap.Error(err))
			mgr = nil
		} else {
			defer mgr.Close()
			// The counter name is part of the key so different models
			// never share entries.
			hash = cache.ContentHash(append([]byte(counter.Name()+"\x00"), data...))
			if n, ok, cerr := mgr.TokenCount(ctx, hash); cerr == nil && ok {
				fmt.Printf("%d\n", n)
				return
			}
		}
	}

	n, err := counter.CountTokens(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
		os.Exit(1)
	}

	if mgr != nil {
		if err := mgr.SetTokenCount(ctx, hash, n); err != nil {
			logger.Warn("cache token count", zap.Error(err))
		}
	}

	fmt.Printf("%d\n", n)
}
