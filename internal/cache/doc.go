// Package cache provides a redis-backed cache of per-document token counts
// keyed by content hash. This package is internal and should not be
// imported by external projects.
package cache
