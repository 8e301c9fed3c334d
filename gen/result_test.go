package gen

import (
	"strings"
	"testing"
	"time"

	"github.com/relog-dev/relog/core"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs     float64
		expected string
	}{
		{0.0005, "<1ms"},
		{0.005, "5ms"},
		{0.0052, "5.2ms"},
		{0.5, "500ms"},
		{2.5, "2.5s"},
		{42, "42s"},
		{120, "2m"},
		{125, "2m5s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.expected {
			t.Errorf("Expected %q for %v, got %q", tt.expected, tt.secs, got)
		}
	}
}

func sampleResult() ChangelogResult {
	return ChangelogResult{
		Changelog: core.Changelog{
			Repo:        "proj",
			Range:       "v1.0.0..HEAD",
			GeneratedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
			Entries: []core.Entry{
				{Commit: mk("A", "feat: add export"), Summary: "Adds data export"},
				{Commit: mk("B", "fix: crash"), Summary: FailedSummary, Err: "service failure"},
			},
		},
		CommitsScanned: 5,
		Retained:       2,
		Failed:         1,
	}
}

func TestMarkdown(t *testing.T) {
	md := sampleResult().Markdown()

	if !strings.Contains(md, "# Changelog for proj") {
		t.Errorf("Expected title, got:\n%s", md)
	}
	if !strings.Contains(md, "Range: v1.0.0..HEAD") {
		t.Errorf("Expected range line, got:\n%s", md)
	}
	if !strings.Contains(md, "- Adds data export (`") {
		t.Errorf("Expected summary bullet, got:\n%s", md)
	}
	if !strings.Contains(md, FailedSummary) || !strings.Contains(md, "service failure") {
		t.Errorf("Expected failed entry with placeholder and error, got:\n%s", md)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	result := ChangelogResult{Changelog: core.Changelog{Repo: "proj", Range: "all history"}}
	if !strings.Contains(result.Markdown(), "No changes in range.") {
		t.Error("Expected empty changelog note")
	}
}

func TestDryRunReport(t *testing.T) {
	result := ChangelogResult{
		DryRun: true,
		Changelog: core.Changelog{
			Repo:  "proj",
			Range: "since 2024-01-01",
			Entries: []core.Entry{
				{Commit: mk("A", "feat: one"), Summary: "rendered prompt text"},
			},
		},
	}

	report := result.DryRunReport()
	if !strings.Contains(report, "1 commit(s) would be summarized") {
		t.Errorf("Expected dry-run header, got:\n%s", report)
	}
	if !strings.Contains(report, "rendered prompt text") {
		t.Errorf("Expected rendered prompt in report, got:\n%s", report)
	}
}

func TestChangelogResultDisplay(t *testing.T) {
	var b strings.Builder
	sampleResult().Display(&b)

	out := b.String()
	if !strings.Contains(out, "5 commit(s) scanned, 2 retained, 1 failed") {
		t.Errorf("Expected stats line, got %q", out)
	}
}

func TestFetchResultDisplay(t *testing.T) {
	result := FetchResult{
		Commits:     []core.Commit{mk("A", "feat: one")},
		RecordsRead: 1,
	}

	var b strings.Builder
	result.Display(&b)

	out := b.String()
	if !strings.Contains(out, "SHA") || !strings.Contains(out, "feat: one") {
		t.Errorf("Expected commit table, got:\n%s", out)
	}
	if !strings.Contains(out, "1 commit(s) (<1ms)") {
		t.Errorf("Expected stats line, got:\n%s", out)
	}
}

func TestTableRender(t *testing.T) {
	var b strings.Builder
	table := NewTable(&b)
	table.Header([]string{"ID", "NAME"})
	table.Row([]string{"1", "alpha"})
	table.Row([]string{"2", "beta-long"})
	table.Render()

	out := b.String()
	if !strings.Contains(out, "| ID | NAME      |") {
		t.Errorf("Expected padded header row, got:\n%s", out)
	}
	if !strings.Contains(out, "| 2  | beta-long |") {
		t.Errorf("Expected padded data row, got:\n%s", out)
	}
	if strings.Count(out, "+----+-----------+") != 3 {
		t.Errorf("Expected three separators, got:\n%s", out)
	}
}
