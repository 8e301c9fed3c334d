package shape

import (
	"strings"

	"github.com/relog-dev/relog/core"
)

// defaultTrivialPrefixes marks housekeeping commits. docs: is absent on
// purpose; documentation changes stay visible in release notes.
var defaultTrivialPrefixes = [...]string{
	"chore:",
	"style:",
	"refactor:",
	"test:",
	"ci:",
	"build:",
	"perf:",
}

// DefaultTrivialPrefixes returns a copy of the built-in prefix set.
func DefaultTrivialPrefixes() []string {
	prefixes := make([]string, len(defaultTrivialPrefixes))
	copy(prefixes, defaultTrivialPrefixes[:])
	return prefixes
}

// Shaper reduces a newest-first commit sequence to the subsequence worth
// summarizing. It holds no mutable state between calls; the trivial prefix
// set is fixed at construction.
type Shaper struct {
	trivialPrefixes []string
}

func NewShaper(trivialPrefixes []string) *Shaper {
	prefixes := make([]string, len(trivialPrefixes))
	copy(prefixes, trivialPrefixes)
	return &Shaper{trivialPrefixes: prefixes}
}

func NewDefaultShaper() *Shaper {
	return NewShaper(defaultTrivialPrefixes[:])
}

// IsMerge reports whether the commit has more than one parent.
func IsMerge(c core.Commit) bool {
	return len(c.ParentSHAs) > 1
}

// IsRevert reports whether the subject marks a revert. Matching is on the
// subject prefix only; the reverted commit itself is not hunted down.
func IsRevert(c core.Commit) bool {
	return strings.HasPrefix(strings.ToLower(c.Subject), "revert ")
}

// IsTrivial reports whether the subject starts with one of the configured
// housekeeping prefixes, case-insensitively.
func (s *Shaper) IsTrivial(c core.Commit) bool {
	subject := strings.ToLower(c.Subject)
	for _, prefix := range s.trivialPrefixes {
		if strings.HasPrefix(subject, prefix) {
			return true
		}
	}
	return false
}

// runState is everything Pass 2 remembers between commits: the author of the
// most recently retained commit and whether that commit was trivial. The zero
// value is the initial state; nothing has been retained, so nothing can be
// collapsed yet. Dropped commits never touch it.
type runState struct {
	lastAuthor     string
	lastWasTrivial bool
}

// Shape applies both passes and returns the retained subsequence in input
// order. Commits are never mutated or reordered; the result is freshly
// allocated and never nil.
func (s *Shaper) Shape(commits []core.Commit) []core.Commit {
	return s.collapseTrivialRuns(s.dropMergesAndReverts(commits))
}

// dropMergesAndReverts is Pass 1: stateless, per-commit.
func (s *Shaper) dropMergesAndReverts(commits []core.Commit) []core.Commit {
	kept := make([]core.Commit, 0, len(commits))
	for _, c := range commits {
		if IsMerge(c) || IsRevert(c) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// collapseTrivialRuns is Pass 2: a single newest-first traversal threading
// runState. A commit is dropped only when it is trivial, by the same author
// as the last retained commit, and that retained commit was itself trivial.
// The newest commit of every same-author trivial run therefore survives.
func (s *Shaper) collapseTrivialRuns(commits []core.Commit) []core.Commit {
	kept := make([]core.Commit, 0, len(commits))
	state := runState{}
	for _, c := range commits {
		trivial := s.IsTrivial(c)
		if trivial && c.Author == state.lastAuthor && state.lastWasTrivial {
			continue
		}
		kept = append(kept, c)
		state = runState{lastAuthor: c.Author, lastWasTrivial: trivial}
	}
	return kept
}
