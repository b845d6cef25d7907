package ngram

// NewEdge creates an edge n-gram tokenizer: the same machine as New with
// output restricted to grams anchored at the leading edge of a token-char
// run (stream start, or immediately after a non-token char). Edge anchoring
// is a classifier-level restriction, not a separate algorithm, so every
// other Config knob behaves identically.
func NewEdge(cfg Config) (*Tokenizer, error) {
	cfg.edgesOnly = true
	return New(cfg)
}
