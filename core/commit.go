package core

// Commit is one record of repository history as consumed by the shaping
// pipeline. Fields are carried verbatim from the source; Date is an ISO 8601
// string and is never used for ordering.
type Commit struct {
	SHA        string   `json:"sha"`
	Author     string   `json:"author"`
	Date       string   `json:"date"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	ParentSHAs []string `json:"parent_shas"`
}

// ShortSHA returns the abbreviated hash used in human-facing output.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 8 {
		return c.SHA
	}
	return c.SHA[:8]
}
