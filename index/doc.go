// Package index persists tokenizer output as an inverted index in an
// embedded sqlite database: one Document row per analyzed source and one
// Posting row per emitted token, written in batches inside a per-document
// transaction.
package index
