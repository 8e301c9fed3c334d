package repo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/relog-dev/relog/core"
)

// Tags lists the repository's tag names.
func (r *Repository) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tags: %v", core.ErrTransport, err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tags: %v", core.ErrTransport, err)
	}
	return names, nil
}

// ResolveTag returns the SHA of the commit a tag points at.
func (r *Repository) ResolveTag(name string) (string, error) {
	hash, err := r.resolveTag(name)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// resolveTag maps a tag name to the commit it points at. Annotated tags are
// peeled to their target commit; lightweight tags already reference one.
func (r *Repository) resolveTag(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		if errors.Is(err, git.ErrTagNotFound) {
			return plumbing.ZeroHash, fmt.Errorf("%w: tag %q not found in repository", core.ErrNotFound, name)
		}
		return plumbing.ZeroHash, fmt.Errorf("%w: failed to resolve tag %q: %v", core.ErrTransport, name, err)
	}

	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("%w: failed to peel tag %q: %v", core.ErrTransport, name, err)
		}
		return commit.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// Lightweight tag
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, fmt.Errorf("%w: failed to read tag %q: %v", core.ErrTransport, name, err)
	}
}
