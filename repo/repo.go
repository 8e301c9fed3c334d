package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/relog-dev/relog/core"
)

// Repository is a read-only view of one git repository, the source of the
// commit records the pipeline consumes.
type Repository struct {
	repo *git.Repository
	name string
}

// Open opens the repository rooted at path.
func Open(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", dir, err)
	}

	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: repository path %q", core.ErrNotFound, dir)
	}

	wt := osfs.New(abs)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, fmt.Errorf("failed to open git directory: %w", err)
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	repo, err := git.Open(storer, wt)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %q is not a git repository", core.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: failed to open repository at %q: %v", core.ErrTransport, dir, err)
	}

	return &Repository{repo: repo, name: filepath.Base(abs)}, nil
}

// OpenMemory initializes an empty in-memory repository. Fixtures and tests
// seed it through Git().
func OpenMemory() (*Repository, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, fmt.Errorf("failed to init in-memory repository: %w", err)
	}

	return &Repository{repo: repo, name: "in-memory"}, nil
}

// Clone fetches a remote repository into memory. The auth argument may be
// nil for public repositories.
func Clone(url string, auth *Auth) (*Repository, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	method, err := auth.method()
	if err != nil {
		return nil, fmt.Errorf("failed to configure auth: %w", err)
	}

	repo, err := git.Clone(storer, wt, &git.CloneOptions{
		URL:  url,
		Auth: method,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to clone %q: %v", core.ErrTransport, url, err)
	}

	return &Repository{repo: repo, name: nameFromURL(url)}, nil
}

// Name returns a short human-readable name for the repository, used as
// prompt context and in rendered changelogs.
func (r *Repository) Name() string {
	return r.name
}

// SetName overrides the derived repository name.
func (r *Repository) SetName(name string) {
	r.name = name
}

// Git exposes the underlying go-git repository for fixture seeding.
func (r *Repository) Git() *git.Repository {
	return r.repo
}

// nameFromURL extracts the repository name from https and scp-like URLs.
func nameFromURL(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
