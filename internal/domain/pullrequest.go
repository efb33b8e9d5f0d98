package domain

// PullRequest carries the pull-request event context the sync operates on.
// All fields come from the invoking workflow environment.
type PullRequest struct {
	Number     int
	NodeID     string
	URL        string
	Title      string
	Author     string
	Repository string
	Org        string
}
