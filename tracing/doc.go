// Package tracing wires OpenTelemetry spans around case operations. Spans are
// no-ops until Init or InitWithExporter installs a provider, so callers can
// trace unconditionally.
package tracing
