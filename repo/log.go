package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"

	"github.com/relog-dev/relog/core"
)

// Commits walks history from HEAD, newest first, down to the lower bound.
// A tag bound is exclusive: the tagged commit itself is not returned. A date
// bound keeps commits whose committer time is not before the given RFC 3339
// timestamp.
func (r *Repository) Commits(ctx context.Context, bound core.Bound) ([]core.Commit, error) {
	if bound.Tag == "" && bound.Since == "" {
		return nil, fmt.Errorf("%w: either a tag or a date lower bound must be provided", core.ErrConfig)
	}
	if bound.Tag != "" && bound.Since != "" {
		return nil, fmt.Errorf("%w: tag and date lower bounds are mutually exclusive", core.ErrConfig)
	}

	stop := plumbing.ZeroHash
	var since *time.Time

	if bound.Tag != "" {
		hash, err := r.resolveTag(bound.Tag)
		if err != nil {
			return nil, err
		}
		stop = hash
	} else {
		t, err := parseBoundTime(bound.Since)
		if err != nil {
			return nil, err
		}
		since = &t
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve HEAD: %v", core.ErrTransport, err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
		Since: since,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to walk history: %v", core.ErrTransport, err)
	}
	defer iter.Close()

	commits := make([]core.Commit, 0, 64)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stop != plumbing.ZeroHash && c.Hash == stop {
			return storer.ErrStop
		}
		commits = append(commits, toRecord(c))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: history walk aborted: %v", core.ErrTransport, err)
	}

	return commits, nil
}

// toRecord flattens a git commit into the wire record. The subject is the
// first message line; the body is everything after it, blank separator lines
// included. The record date is the committer timestamp.
func toRecord(c *object.Commit) core.Commit {
	lines := strings.Split(strings.TrimSuffix(c.Message, "\n"), "\n")

	subject := ""
	if len(lines) > 0 {
		subject = lines[0]
	}
	body := ""
	if len(lines) > 1 {
		body = strings.Join(lines[1:], "\n")
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return core.Commit{
		SHA:        c.Hash.String(),
		Author:     c.Author.Name,
		Date:       c.Committer.When.Format(time.RFC3339),
		Subject:    subject,
		Body:       body,
		ParentSHAs: parents,
	}
}

// parseBoundTime accepts RFC 3339 timestamps and plain dates.
func parseBoundTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid RFC 3339 date %q (e.g. 2023-10-27T10:00:00Z)", core.ErrFormat, s)
}
