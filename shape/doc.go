// Package shape implements the commit shaping pipeline.
//
// Shaping runs two passes over a newest-first commit sequence. Pass 1 drops
// merge commits (more than one parent) and reverts (subject starts with
// "revert ", case-insensitively). Pass 2 collapses runs of consecutive
// trivial commits by the same author down to the newest one.
//
// # Usage
//
//	shaper := shape.NewDefaultShaper()
//	kept := shaper.Shape(commits)
//
// The trivial prefix set is fixed at construction:
//
//	shaper := shape.NewShaper([]string{"chore:", "wip:"})
//
// Shaping is pure: no I/O, no errors, deterministic, and idempotent. The
// output is always an order-preserving subsequence of the input.
package shape
