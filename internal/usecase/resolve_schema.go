package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

// Field roles looked up by case-insensitive exact name match.
const (
	fieldRoleEffort    = "effort"
	fieldRoleWeight    = "weight"
	fieldRoleRepoName  = "reponame"
	fieldRoleStatus    = "status"
	fieldRoleAssignees = "assignees"
)

// doneOptionNames are the status option names treated as a completed state,
// checked in listing order.
var doneOptionNames = []string{"done", "completed", "closed"}

// ResolveSchemaUseCase maps the sync's logical field roles onto the
// project's actual custom fields.

type ResolveSchemaUseCase struct {
	ProjectRepo repository.ProjectRepository
	Logger      *zap.Logger
}

// Execute resolves the field schema of a project. A role with no matching
// field is simply left nil. The author user-id lookup may degrade: its
// failure is logged and leaves assignment skipped.
func (uc *ResolveSchemaUseCase) Execute(
	ctx context.Context,
	projectID, authorLogin string,
) (*domain.FieldSchema, error) {
	fields, err := uc.ProjectRepo.ListFields(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project fields: %w", err)
	}
	schema := &domain.FieldSchema{}
	for i := range fields {
		field := &fields[i]
		switch strings.ToLower(field.Name) {
		case fieldRoleEffort:
			schema.Effort = field
		case fieldRoleWeight:
			schema.Weight = field
		case fieldRoleRepoName:
			schema.RepoName = field
		case fieldRoleStatus:
			schema.Status = field
		case fieldRoleAssignees:
			schema.Assignees = field
		}
	}
	if schema.Status != nil {
		schema.DoneOptionID = findDoneOption(schema.Status.Options)
	}
	if authorLogin != "" {
		userID, err := uc.ProjectRepo.ResolveUserID(ctx, authorLogin)
		if err != nil {
			uc.Logger.Warn("could not resolve author user id, assignment will be skipped",
				zap.String("author", authorLogin),
				zap.Error(err))
		} else {
			schema.AuthorUserID = userID
		}
	}
	return schema, nil
}

func findDoneOption(options []domain.FieldOption) string {
	for _, opt := range options {
		for _, name := range doneOptionNames {
			if strings.EqualFold(opt.Name, name) {
				return opt.ID
			}
		}
	}
	return ""
}
