// Package idgen issues identifiers for CPU leases and command executions.
// Identifiers are opaque; tests may replace NewFunc for determinism.
package idgen
