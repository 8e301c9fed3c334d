// Package core provides core types used throughout relog.
//
// The package defines fundamental types like Commit, Entry, Changelog, and
// Bound, plus the error kinds the pipeline's collaborators report.
//
// # Commit
//
// Commit is the unit of history flowing through the pipeline:
//
//	commit := core.Commit{
//	    SHA:     "4f2d9c8e1a7b3d5f9c0e2a4b6d8f0a1c3e5b7d9f",
//	    Author:  "Jane Doe",
//	    Date:    "2024-05-01T12:00:00+00:00",
//	    Subject: "feat: add retry budget",
//	    Body:    "Caps retries per request.",
//	}
//
// Only the length of ParentSHAs is ever inspected; a commit with more than
// one parent is a merge.
//
// # Bound
//
// Bound selects where history fetching stops, either at a tag or at a
// timestamp:
//
//	bound := core.Bound{Tag: "v1.2.0"}
//	bound := core.Bound{Since: "2024-05-01T00:00:00Z"}
//
// # Error Kinds
//
// Collaborator failures wrap one of the sentinel kinds so callers can branch
// without string matching:
//
//	if errors.Is(err, core.ErrNotFound) { ... }
package core
