package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/gramflow/analysis/ngram"
	"github.com/BaSui01/gramflow/config"
)

// Build information, injected through ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "tokenize":
		runTokenize(os.Args[2:])
	case "index":
		runIndex(os.Args[2:])
	case "count":
		runCount(os.Args[2:])
	case "terms":
		runTerms(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("gramflow %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`gramflow - sliding-window n-gram analyzer

Usage:
  gramflow <command> [options]

Commands:
  tokenize  Print the n-gram tokens of a file or stdin
  index     Analyze files and store their postings in the index
  count     Count model tokens in a file
  terms     Print the most frequent indexed terms
  version   Show version information
  help      Show this help message

Common options:
  --config <path>   Path to configuration file (YAML)

Examples:
  gramflow tokenize --min-gram 2 --max-gram 3 corpus.txt
  gramflow index --config gramflow.yaml docs/*.txt
  gramflow count --model gpt-4o prompt.txt
  gramflow terms --top 20`)
}

// loadConfig loads the configuration file, exiting on failure.
func loadConfig(path string) *config.Config {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newTokenizer builds a tokenizer from the analyzer configuration.
func newTokenizer(ac config.AnalyzerConfig, logger *zap.Logger) (*ngram.Tokenizer, error) {
	cfg := ngram.Config{
		MinGram:       ac.MinGram,
		MaxGram:       ac.MaxGram,
		KeepShortTerm: ac.KeepShortTerm,
		KeepLongTerm:  ac.KeepLongTerm,
		Logger:        logger,
	}
	if ac.Delimiters != "" {
		delims := ac.Delimiters
		cfg.IsTokenChar = func(r rune) bool {
			return !strings.ContainsRune(delims, r)
		}
	}
	if ac.Edge {
		return ngram.NewEdge(cfg)
	}
	return ngram.New(cfg)
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
