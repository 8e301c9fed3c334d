// Package repo provides read access to git repositories as sequences of
// commit records.
//
// A Repository is opened from a working directory, initialized in memory, or
// cloned from a remote URL:
//
//	r, err := repo.Open(".")
//	r, err := repo.Clone("https://github.com/org/project.git", &repo.Auth{
//	    Type:  repo.AuthTypeToken,
//	    Token: token,
//	})
//
// # Fetching Commits
//
// Commits walks history newest-first from HEAD down to a lower bound, either
// a tag (exclusive) or an RFC 3339 timestamp:
//
//	commits, err := r.Commits(ctx, core.Bound{Tag: "v1.2.0"})
//	commits, err := r.Commits(ctx, core.Bound{Since: "2024-01-01T00:00:00Z"})
//
// Exactly one bound must be set. Unknown tags and malformed timestamps are
// reported before any history is walked.
//
// # Authentication
//
// Remote access supports token, basic, SSH key, and GitHub App credentials.
// App credentials are exchanged for a short-lived installation token before
// the clone starts.
package repo
