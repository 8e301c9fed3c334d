package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/relog-dev/relog/core"
)

// Placeholders every template must carry. The commit message placeholder
// keeps its historical long name for compatibility with existing prompt
// files.
const (
	PlaceholderRepoName      = "{{REPO_NAME}}"
	PlaceholderDateRange     = "{{DATE_RANGE}}"
	PlaceholderCommitMessage = "{{COMMIT_MESSAGE_PLACEHOLDER}}"
)

// DefaultTemplate is used when no prompt file is configured.
const DefaultTemplate = `System:
You write release notes for the project '{{REPO_NAME}}'. Each request holds
one commit from the range {{DATE_RANGE}}. Answer with a single changelog
bullet: plain language, present tense, at most 25 words, no leading dash.
User:
Summarize this commit message:

{{COMMIT_MESSAGE_PLACEHOLDER}}

Bullet:`

// Template is a parsed prompt split into an optional system section and a
// user section, with placeholders still in place.
type Template struct {
	system string
	user   string
}

// Load reads and parses a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: prompt file not found at %s", core.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse validates the required placeholders and splits the text on its
// "System:" and "User:" markers. Text without markers becomes the user
// section wholesale. Sectioning happens here, before any rendering, so
// marker-lookalikes inside commit messages can never shift the boundary.
func Parse(text string) (*Template, error) {
	found := placeholders(text)
	for _, required := range []string{PlaceholderRepoName, PlaceholderDateRange, PlaceholderCommitMessage} {
		if !contains(found, required) {
			return nil, fmt.Errorf("%w: prompt template must contain '%s'", core.ErrConfig, required)
		}
	}

	if idx := strings.Index(text, "User:"); idx >= 0 {
		system := strings.TrimSpace(strings.ReplaceAll(text[:idx], "System:", ""))
		user := strings.TrimSpace(text[idx+len("User:"):])
		if user == "" {
			return nil, fmt.Errorf("%w: user section of the prompt is empty", core.ErrConfig)
		}
		return &Template{system: system, user: user}, nil
	}

	if strings.HasPrefix(strings.ToLower(text), "system:") {
		return nil, fmt.Errorf("%w: prompt has a system section but no user section", core.ErrConfig)
	}

	return &Template{user: text}, nil
}

// Render substitutes the placeholders in both sections. Unknown placeholders
// pass through as literal text.
func (t *Template) Render(repoName, dateRange, message string) (system, user string) {
	replacer := strings.NewReplacer(
		PlaceholderRepoName, repoName,
		PlaceholderDateRange, dateRange,
		PlaceholderCommitMessage, message,
	)
	return replacer.Replace(t.system), replacer.Replace(t.user)
}

// HasSystem reports whether the template carries a system section.
func (t *Template) HasSystem() bool {
	return t.system != ""
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
