package gen

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/relog-dev/relog/core"
	"github.com/relog-dev/relog/llm"
	"github.com/relog-dev/relog/prompt"
	"github.com/relog-dev/relog/shape"
)

// DefaultConcurrency bounds the summarization worker pool.
const DefaultConcurrency = 4

// FailedSummary is the placeholder recorded for entries whose summarization
// failed. The error itself travels in Entry.Err.
const FailedSummary = "(summary unavailable)"

// Source produces the newest-first commit sequence the pipeline consumes.
// *repo.Repository satisfies it; Records wraps a pre-fetched sequence.
type Source interface {
	Name() string
	Commits(ctx context.Context, bound core.Bound) ([]core.Commit, error)
}

// Records is a Source over commits fetched earlier, e.g. a commits JSON
// file. The bound is ignored; the records are already bounded.
type Records struct {
	name    string
	commits []core.Commit
}

func NewRecords(name string, commits []core.Commit) *Records {
	return &Records{name: name, commits: commits}
}

func (r *Records) Name() string {
	return r.name
}

func (r *Records) Commits(ctx context.Context, bound core.Bound) ([]core.Commit, error) {
	return r.commits, nil
}

// Config configures one Generator. Zero values fall back to defaults; the
// only required field outside dry-run mode is Client.
type Config struct {
	Bound       core.Bound
	Client      llm.Client       // required unless DryRun
	Template    *prompt.Template // nil uses the built-in template
	Prefixes    []string         // nil uses shape.DefaultTrivialPrefixes
	Concurrency int
	DryRun      bool
	Logger      zerolog.Logger
}

// Generator drives fetch, shape, summarize and assemble for one source.
type Generator struct {
	source   Source
	shaper   *shape.Shaper
	template *prompt.Template
	config   Config
}

func NewGenerator(source Source, config Config) (*Generator, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: a commit source is required", core.ErrConfig)
	}
	if config.Client == nil && !config.DryRun {
		return nil, fmt.Errorf("%w: a summarization client is required outside dry-run mode", core.ErrConfig)
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}

	template := config.Template
	if template == nil {
		parsed, err := prompt.Parse(prompt.DefaultTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in template: %w", err)
		}
		template = parsed
	}

	prefixes := config.Prefixes
	if prefixes == nil {
		prefixes = shape.DefaultTrivialPrefixes()
	}

	return &Generator{
		source:   source,
		shaper:   shape.NewShaper(prefixes),
		template: template,
		config:   config,
	}, nil
}

// Fetch returns the raw commit records without shaping or summarizing.
func (generator *Generator) Fetch(ctx context.Context) (FetchResult, error) {
	startTime := time.Now()

	commits, err := generator.source.Commits(ctx, generator.config.Bound)
	if err != nil {
		return FetchResult{}, err
	}

	return FetchResult{
		Commits:          commits,
		RecordsRead:      len(commits),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

// Changelog runs the full pipeline. The result is returned only after every
// summarization attempt has settled; a canceled context returns an error and
// no partial result.
func (generator *Generator) Changelog(ctx context.Context) (ChangelogResult, error) {
	startTime := time.Now()

	commits, err := generator.source.Commits(ctx, generator.config.Bound)
	if err != nil {
		return ChangelogResult{}, err
	}

	shaped := generator.shaper.Shape(commits)

	generator.config.Logger.Debug().
		Int("scanned", len(commits)).
		Int("retained", len(shaped)).
		Msg("Shaped commit history")

	entries, err := generator.summarize(ctx, shaped)
	if err != nil {
		return ChangelogResult{}, err
	}

	changelog := core.Changelog{
		Repo:        generator.source.Name(),
		Range:       generator.config.Bound.Describe(),
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	}

	return ChangelogResult{
		Changelog:        changelog,
		CommitsScanned:   len(commits),
		Retained:         len(shaped),
		Failed:           changelog.Failed(),
		DryRun:           generator.config.DryRun,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

// summarize scatters one task per commit over a bounded pool and gathers
// results by index. Per-item failures land on their entry; the group error
// is reserved for cancellation.
func (generator *Generator) summarize(ctx context.Context, commits []core.Commit) ([]core.Entry, error) {
	entries := make([]core.Entry, len(commits))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(generator.config.Concurrency)

	repoName := generator.source.Name()
	dateRange := generator.config.Bound.Describe()

	for i, commit := range commits {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			system, user := generator.template.Render(repoName, dateRange, commitMessage(commit))

			if generator.config.DryRun {
				entries[i] = core.Entry{Commit: commit, Summary: user}
				return nil
			}

			summary, err := generator.config.Client.Summarize(groupCtx, llm.Request{System: system, User: user})
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				generator.config.Logger.Warn().
					Str("sha", commit.ShortSHA()).
					Err(err).
					Msg("Summarization failed for commit")
				entries[i] = core.Entry{Commit: commit, Summary: FailedSummary, Err: err.Error()}
				return nil
			}

			entries[i] = core.Entry{Commit: commit, Summary: summary}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// commitMessage reassembles the full message the summarizer sees.
func commitMessage(c core.Commit) string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}
