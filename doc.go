// Package relog turns git history into AI-summarized release notes.
//
// relog walks a repository's commits down to a lower bound (a tag or a
// date), shapes the sequence for a human-facing changelog — dropping merge
// commits and reverts, collapsing runs of housekeeping commits — and asks a
// chat-completion service for a one-line summary of every retained commit.
//
// # Quick Start
//
// Generate a changelog for everything since the last release tag:
//
//	repository, _ := repo.Open(".")
//	client, _ := llm.NewOpenAI(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
//
//	generator, _ := relog.Open(repository).Generator(gen.Config{
//		Bound:  core.Bound{Tag: "v1.2.0"},
//		Client: client,
//	})
//
//	result, _ := generator.Changelog(ctx)
//	fmt.Print(result.Markdown())
//
// # Pipeline
//
// The stages live in their own packages and compose through plain types:
//
//   - repo reads commit records from git, newest first
//   - shape filters and de-duplicates the sequence
//   - prompt renders the per-commit summarization prompt
//   - llm calls the chat-completion endpoint
//   - gen orchestrates fetch, shape, concurrent summarize and assembly
//
// The shape package is pure and total; it is usable on its own for any
// newest-first commit sequence, with no git or network dependency.
package relog
