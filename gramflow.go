// Package gramflow provides a top-level convenience entry point for building
// n-gram token streams with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/gramflow"
//
//	tok, err := gramflow.New(2, 3)
//	tok, err := gramflow.NewEdge(1, 4)
//
// This is a thin wrapper around [ngram.New]; both produce identical results.
// Use the analysis/ngram package directly when you need token character
// predicates, offset correction or the keep-short/keep-long extensions.
package gramflow

import (
	"github.com/BaSui01/gramflow/analysis/ngram"
)

// Config configures the tokenizer created by [New] and [NewEdge].
type Config = ngram.Config

// New creates a tokenizer emitting every gram of minGram to maxGram code
// points per window position.
func New(minGram, maxGram int) (*ngram.Tokenizer, error) {
	return ngram.New(ngram.Config{MinGram: minGram, MaxGram: maxGram})
}

// NewEdge creates a tokenizer emitting only grams anchored at run starts.
func NewEdge(minGram, maxGram int) (*ngram.Tokenizer, error) {
	return ngram.NewEdge(ngram.Config{MinGram: minGram, MaxGram: maxGram})
}
