// Package gen orchestrates changelog generation.
//
// A Generator runs the pipeline end to end: fetch commit records from a
// Source, shape them, summarize each retained commit, and assemble the
// changelog. Summarization is scattered over a bounded worker pool and
// gathered back by input index, so output order always matches the shaped
// sequence regardless of completion order. A per-commit summarization
// failure is recorded on its entry and never aborts the batch.
package gen
