package gen

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/relog-dev/relog/core"
)

type ResultType int

const (
	FetchResultType ResultType = iota
	ChangelogResultType
)

// Result is what a Generator operation reports back: the payload plus the
// run statistics rendered by Display.
type Result interface {
	Type() ResultType
	Display(w io.Writer)
}

// FetchResult carries the raw commit records of a fetch operation.
type FetchResult struct {
	Commits          []core.Commit
	RecordsRead      int
	ExecutionTimeSec float64
}

// ChangelogResult carries the assembled changelog and the shaping numbers.
type ChangelogResult struct {
	Changelog        core.Changelog
	CommitsScanned   int
	Retained         int
	Failed           int
	DryRun           bool
	ExecutionTimeSec float64
}

func (result FetchResult) Type() ResultType {
	return FetchResultType
}

func (result ChangelogResult) Type() ResultType {
	return ChangelogResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func (result FetchResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result ChangelogResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Display renders the fetched commits as a table plus a compact stats line.
func (result FetchResult) Display(w io.Writer) {
	if len(result.Commits) > 0 {
		table := NewTable(w)
		table.Header([]string{"SHA", "AUTHOR", "DATE", "SUBJECT"})
		for _, c := range result.Commits {
			table.Row([]string{c.ShortSHA(), c.Author, c.Date, c.Subject})
		}
		table.Render()
	}

	fmt.Fprintf(w, "%d commit(s) (%s)\n", result.RecordsRead, result.ExecutionTime())
}

// Display renders a compact stats line for a changelog run.
func (result ChangelogResult) Display(w io.Writer) {
	parts := []string{
		fmt.Sprintf("%d commit(s) scanned", result.CommitsScanned),
		fmt.Sprintf("%d retained", result.Retained),
	}
	if result.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", result.Failed))
	}
	if result.DryRun {
		parts = append(parts, "dry-run")
	}

	fmt.Fprintf(w, "%s (%s)\n", strings.Join(parts, ", "), result.ExecutionTime())
}

// Markdown assembles the changelog document: one bullet per entry, failed
// entries marked with their placeholder.
func (result ChangelogResult) Markdown() string {
	c := result.Changelog

	var b strings.Builder
	fmt.Fprintf(&b, "# Changelog for %s\n\n", c.Repo)
	fmt.Fprintf(&b, "Range: %s. Generated at %s.\n\n", c.Range, c.GeneratedAt.Format(time.RFC3339))

	if len(c.Entries) == 0 {
		b.WriteString("No changes in range.\n")
		return b.String()
	}

	for _, e := range c.Entries {
		if e.Err != "" {
			fmt.Fprintf(&b, "- %s (`%s`): %s\n", e.Summary, e.Commit.ShortSHA(), e.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s (`%s`)\n", e.Summary, e.Commit.ShortSHA())
	}
	return b.String()
}

// DryRunReport lists, per retained commit, the prompt that would have been
// sent to the summarization service.
func (result ChangelogResult) DryRunReport() string {
	c := result.Changelog

	var b strings.Builder
	fmt.Fprintf(&b, "Dry run for %s (%s): %d commit(s) would be summarized.\n", c.Repo, c.Range, len(c.Entries))

	for _, e := range c.Entries {
		fmt.Fprintf(&b, "\n--- %s %s\n%s\n", e.Commit.ShortSHA(), e.Commit.Subject, e.Summary)
	}
	return b.String()
}
