// Package tokencount provides token counting for budgeting decisions in the
// indexing pipeline, with a tiktoken-backed exact counter and a CJK-aware
// estimator that needs no encoding data download.
package tokencount
