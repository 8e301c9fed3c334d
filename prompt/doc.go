// Package prompt loads and renders the summarization prompt templates.
//
// A template is plain text with an optional "System:" section, a "User:"
// section, and three required placeholders:
//
//	{{REPO_NAME}}
//	{{DATE_RANGE}}
//	{{COMMIT_MESSAGE_PLACEHOLDER}}
//
// Parsing validates the placeholders and fixes the section boundary before
// any commit text is rendered in:
//
//	tmpl, err := prompt.Load("prompts/base.txt")
//	system, user := tmpl.Render("myrepo", "v1.0.0..HEAD", commitMessage)
//
// Templates without section markers send the whole text as the user message.
// DefaultTemplate ships in the binary for runs without a prompt file.
package prompt
