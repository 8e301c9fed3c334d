package core

import "fmt"

// Bound selects the lower end of the commit range to fetch. Exactly one of
// Tag or Since must be set; the source validates this before touching the
// repository.
type Bound struct {
	Tag   string `json:"tag,omitempty"`
	Since string `json:"since,omitempty"` // RFC 3339 timestamp
}

// Describe renders the bound for display and for prompt date ranges.
func (b Bound) Describe() string {
	if b.Tag != "" {
		return fmt.Sprintf("%s..HEAD", b.Tag)
	}
	if b.Since != "" {
		return fmt.Sprintf("since %s", b.Since)
	}
	return "all history"
}
