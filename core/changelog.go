package core

import "time"

// Entry pairs a retained commit with its summarization outcome. Err is
// non-empty when summarization failed for this commit; the entry still
// occupies its slot so output order always mirrors input order.
type Entry struct {
	Commit  Commit `json:"commit"`
	Summary string `json:"summary"`
	Err     string `json:"error,omitempty"`
}

// Changelog is the assembled result of one generation run.
type Changelog struct {
	Repo        string    `json:"repo"`
	Range       string    `json:"range"`
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// Failed reports how many entries carry a summarization error.
func (c Changelog) Failed() int {
	n := 0
	for _, e := range c.Entries {
		if e.Err != "" {
			n++
		}
	}
	return n
}
