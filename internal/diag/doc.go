// Package diag defines the diagnostic model shared by all generator phases.
//
// Diagnostic is the central record: Severity, compact numeric Code with a
// stable string form, a short human message, the primary source.Span of the
// offending token, and optional Notes pointing at related spans.
//
// Phases emit through a Reporter to stay decoupled from storage. BagReporter
// aggregates into a Bag, which supports sorting and deduplication so CLI
// output stays deterministic. Rendering lives in internal/diagfmt.
//
// Diagnostics are values, never errors: a phase keeps running after
// reporting, so one invocation surfaces every finding it can.
package diag
