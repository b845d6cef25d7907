package tokencount

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens with a tiktoken encoding.
type TiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// knownEncodings maps model-family prefixes to their tiktoken encoding.
var knownEncodings = map[string]string{
	"gpt-4o":                 "o200k_base",
	"gpt-4":                  "cl100k_base",
	"gpt-3.5-turbo":          "cl100k_base",
	"text-embedding-3-large": "cl100k_base",
	"text-embedding-3-small": "cl100k_base",
}

// NewTiktokenCounter creates a tiktoken-backed counter for the given model.
// Unknown models fall back to cl100k_base.
func NewTiktokenCounter(model string) *TiktokenCounter {
	encoding, ok := knownEncodings[model]
	if !ok {
		// Longest prefix wins so "gpt-4o-mini" resolves via "gpt-4o",
		// not "gpt-4".
		best := -1
		for prefix, e := range knownEncodings {
			if len(model) >= len(prefix) && model[:len(prefix)] == prefix && len(prefix) > best {
				encoding = e
				best = len(prefix)
				ok = true
			}
		}
	}
	if !ok {
		encoding = "cl100k_base"
	}
	return &TiktokenCounter{encoding: encoding}
}

// init lazily initializes the tiktoken encoding (it may download data on
// first use).
func (t *TiktokenCounter) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

func (t *TiktokenCounter) CountTokens(text string) (int, error) {
	if err := t.init(); err != nil {
		return 0, err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

func (t *TiktokenCounter) Encode(text string) ([]int, error) {
	if err := t.init(); err != nil {
		return nil, err
	}
	return t.enc.Encode(text, nil, nil), nil
}

func (t *TiktokenCounter) Name() string {
	return fmt.Sprintf("tiktoken[%s]", t.encoding)
}

// RegisterOpenAICounters registers counters for all known model families.
func RegisterOpenAICounters() {
	for model := range knownEncodings {
		RegisterCounter(model, NewTiktokenCounter(model))
	}
}
