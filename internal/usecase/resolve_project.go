package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

// projectMatcher is one predicate in the ordered name-matching chain.
type projectMatcher struct {
	name  string
	match func(title, target string) bool
}

// projectMatchers are applied in order; the first matcher that finds a
// project wins, and within a matcher the first project in listing order
// wins.
var projectMatchers = []projectMatcher{
	{name: "exact", match: func(title, target string) bool {
		return title == target
	}},
	{name: "case-insensitive", match: strings.EqualFold},
	{name: "substring", match: func(title, target string) bool {
		return strings.Contains(strings.ToLower(title), strings.ToLower(target))
	}},
}

// ResolveProjectUseCase locates an organization project by display name.

type ResolveProjectUseCase struct {
	ProjectRepo repository.ProjectRepository
	Logger      *zap.Logger
}

// Execute lists the organization's projects and applies the matcher chain.
// A listing failure that looks like an authorization problem is reported as
// PermissionDeniedError; no match at all is ErrProjectNotFound.
func (uc *ResolveProjectUseCase) Execute(ctx context.Context, org, name string) (*domain.Project, error) {
	projects, err := uc.ProjectRepo.ListProjects(ctx, org)
	if err != nil {
		if domain.IsPermissionError(err) {
			return nil, &domain.PermissionDeniedError{Org: org, Err: err}
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	project := matchProject(projects, name)
	if project == nil {
		return nil, fmt.Errorf("%w: no project matching %q in org %s", domain.ErrProjectNotFound, name, org)
	}
	if project.Closed {
		uc.Logger.Warn("matched project is closed",
			zap.String("project", project.Title),
			zap.Int("number", project.Number))
	}
	return project, nil
}

func matchProject(projects []domain.Project, target string) *domain.Project {
	for _, m := range projectMatchers {
		for i := range projects {
			if m.match(projects[i].Title, target) {
				return &projects[i]
			}
		}
	}
	return nil
}
