package repository

import (
	"context"

	"github.com/compozy/effortsync/internal/domain"
)

// ProjectItemPage is one cursor-delimited page of project items.
type ProjectItemPage struct {
	Items       []domain.ProjectItem
	EndCursor   string
	HasNextPage bool
}

// ProjectRepository defines the project-board operations used by the sync.
// All operations run against organization-level projects.

type ProjectRepository interface {
	ListProjects(ctx context.Context, org string) ([]domain.Project, error)
	ListFields(ctx context.Context, projectID string) ([]domain.ProjectField, error)
	// ListItems returns one page of up to ItemPageSize items, starting
	// after the given cursor. An empty cursor starts from the beginning.
	ListItems(ctx context.Context, projectID, cursor string) (*ProjectItemPage, error)
	// AddItem attaches an issue (by content node ID) to the project and
	// returns the new project item ID.
	AddItem(ctx context.Context, projectID, contentID string) (string, error)
	UpdateNumberField(ctx context.Context, projectID, itemID, fieldID string, value float64) error
	UpdateTextField(ctx context.Context, projectID, itemID, fieldID, value string) error
	UpdateSelectField(ctx context.Context, projectID, itemID, fieldID, optionID string) error
	// ResolveUserID returns the node ID for a user login.
	ResolveUserID(ctx context.Context, login string) (string, error)
}
