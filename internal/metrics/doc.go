// Package metrics provides internal Prometheus metrics collection for the
// analysis and indexing pipeline. This package is internal and should not
// be imported by external projects.
package metrics
