// Package stream provides incremental extractors that turn raw model output
// chunks into the subset of text that should be surfaced to an end user.
//
// Each extractor is a synchronous state machine: the caller feeds chunks in
// production order via Push, forwards whatever Push returns, and stops once
// Done reports true. Extractors hold back any buffered suffix that could
// still turn out to be part of a tag, so output is identical regardless of
// how the source text was split into chunks.
package stream
