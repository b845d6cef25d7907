// Package ngram implements a streaming sliding-window n-gram tokenizer.
//
// The tokenizer walks an arbitrarily long character stream and emits every
// contiguous run of MinGram..MaxGram code points, in increasing start offset
// order, without buffering the whole input. Offsets reported on each token
// are exact byte offsets into the original stream, maintained across
// incremental window compaction and growth.
//
// A pluggable IsTokenChar predicate pre-tokenizes the stream into runs so
// grams never cross a delimiter. Three optional behaviors refine run
// handling: KeepShortTerm emits a run shorter than MinGram as one token at
// run edges, KeepLongTerm additionally emits one elongated token spanning a
// whole run longer than MaxGram, and the edge variant (NewEdge) restricts
// output to grams anchored at the leading edge of each run.
//
// For example, "abcde" with MinGram=2, MaxGram=3 produces
// "ab" "abc" "bc" "bcd" "cd" "cde" "de".
package ngram
