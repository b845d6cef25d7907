package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
)

// runTokenize prints one token per line as term, start offset, end offset,
// tab separated, followed by the final end-of-stream offset.
func runTokenize(args []string) {
	fs := flag.NewFlagSet("tokenize", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	minGram := fs.Int("min-gram", 0, "Override analyzer min_gram")
	maxGram := fs.Int("max-gram", 0, "Override analyzer max_gram")
	edge := fs.Bool("edge", false, "Emit only grams anchored at run starts")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if *minGram > 0 {
		cfg.Analyzer.MinGram = *minGram
	}
	if *maxGram > 0 {
		cfg.Analyzer.MaxGram = *maxGram
	}
	if *edge {
		cfg.Analyzer.Edge = true
	}

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

	tok, err := newTokenizer(cfg.Analyzer, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid analyzer config: %v\n", err)
		os.Exit(1)
	}
	if err := tok.Reset(in); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to attach input: %v\n", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for {
		t, err := tok.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Tokenize failed: %v\n", err)
			os.Exit(1)
		}
		if t == nil {
			break
		}
		fmt.Fprintf(out, "%s\t%d\t%d\n", t.Term, t.StartOffset, t.EndOffset)
	}
	final := tok.End()
	fmt.Fprintf(out, "-- end %d\n", final.EndOffset)
}
