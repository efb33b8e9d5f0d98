package domain

// Project represents an organization-level project board. Projects are
// external entities: this system looks them up but never creates them.
type Project struct {
	ID     string
	Title  string
	Number int
	Closed bool
}

// FieldOption is a selectable value of a single-select project field.
type FieldOption struct {
	ID   string
	Name string
}

// ProjectField describes one custom field of a project.
type ProjectField struct {
	ID       string
	Name     string
	DataType string
	Options  []FieldOption
}

// FieldSchema maps the logical roles the sync writes to onto the project's
// actual fields. Any role may be nil, meaning the project has no matching
// field and the corresponding write is skipped.
type FieldSchema struct {
	Effort    *ProjectField
	Weight    *ProjectField
	RepoName  *ProjectField
	Status    *ProjectField
	Assignees *ProjectField

	// DoneOptionID is the option of the status field whose name looks like
	// a completed state. Empty when the status field has no such option.
	DoneOptionID string

	// AuthorUserID is the resolved node ID of the pull-request author, used
	// for assignment. Empty when the lookup failed or was skipped.
	AuthorUserID string
}
