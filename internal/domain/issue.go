package domain

// Issue is a tracking issue as seen through the external API.
type Issue struct {
	Number int
	NodeID string
	Title  string
	Body   string
	URL    string
}

// ProjectItem is the link entity between an issue and a project board.
// ContentType is empty for items without textual content (e.g. archived
// or redacted items); such items are never considered for matching.
// IssueNumber and IssueNodeID are populated only for Issue contents.
type ProjectItem struct {
	ID          string
	ContentType string
	Title       string
	Body        string
	IssueNumber int
	IssueNodeID string
	IssueURL    string
}
