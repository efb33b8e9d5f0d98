package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

// LocateIssueUseCase finds the tracking issue for a pull request, creating
// it when none exists. The search precedence is strict:
//
//  1. items already attached to the project,
//  2. a repository-wide title search,
//  3. a freshly created issue.
//
// Whichever branch hits, the issue leaves this use case with the canonical
// title and body, so every run is an upsert.

type LocateIssueUseCase struct {
	ProjectRepo repository.ProjectRepository
	IssueRepo   repository.IssueRepository
	Logger      *zap.Logger
}

// LocatedIssue is the result of a find-or-create pass. ItemID is set only
// when the issue was found already attached to the project.
type LocatedIssue struct {
	Issue   *domain.Issue
	ItemID  string
	Created bool
}

// Execute runs the find-or-create sequence and rewrites the issue to the
// given canonical title and body.
func (uc *LocateIssueUseCase) Execute(
	ctx context.Context,
	pr *domain.PullRequest,
	projectID, title, body string,
) (*LocatedIssue, error) {
	item, err := uc.findAttachedItem(ctx, pr, projectID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		uc.Logger.Info("found tracking issue attached to project",
			zap.Int("issue", item.IssueNumber),
			zap.String("item_id", item.ID))
		issue, err := uc.IssueRepo.Update(ctx, item.IssueNumber, title, body)
		if err != nil {
			return nil, fmt.Errorf("failed to update tracking issue #%d: %w", item.IssueNumber, err)
		}
		return &LocatedIssue{Issue: issue, ItemID: item.ID}, nil
	}
	found, err := uc.IssueRepo.SearchByTitle(ctx, fmt.Sprintf("PR #%d:", pr.Number))
	if err != nil {
		return nil, fmt.Errorf("failed to search for tracking issue: %w", err)
	}
	if found != nil {
		uc.Logger.Info("found detached tracking issue via search",
			zap.Int("issue", found.Number))
		issue, err := uc.IssueRepo.Update(ctx, found.Number, title, body)
		if err != nil {
			return nil, fmt.Errorf("failed to update tracking issue #%d: %w", found.Number, err)
		}
		return &LocatedIssue{Issue: issue}, nil
	}
	issue, err := uc.IssueRepo.Create(ctx, title, body, []string{pr.Author})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking issue: %w", err)
	}
	uc.Logger.Info("created tracking issue", zap.Int("issue", issue.Number))
	return &LocatedIssue{Issue: issue, Created: true}, nil
}

// findAttachedItem pages through the project's items looking for an issue
// whose title carries the pull-request number and whose body names the
// repository. Items without the repository marker are skipped even when the
// number matches: an older issue format cannot prove which repository it
// belongs to, and claiming it could cross repositories.
func (uc *LocateIssueUseCase) findAttachedItem(
	ctx context.Context,
	pr *domain.PullRequest,
	projectID string,
) (*domain.ProjectItem, error) {
	cursor := ""
	for {
		page, err := uc.ProjectRepo.ListItems(ctx, projectID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list project items: %w", err)
		}
		for i := range page.Items {
			item := &page.Items[i]
			if item.ContentType != "Issue" {
				continue
			}
			number, ok := domain.ParseTrackingNumber(item.Title)
			if !ok || number != pr.Number {
				continue
			}
			if !domain.BodyMatchesRepository(item.Body, pr.Repository) {
				continue
			}
			return item, nil
		}
		if !page.HasNextPage {
			return nil, nil
		}
		// A next page must come with a fresh cursor; anything else would
		// loop forever.
		if page.EndCursor == "" || page.EndCursor == cursor {
			return nil, fmt.Errorf("project item pagination did not advance (cursor %q)", cursor)
		}
		cursor = page.EndCursor
	}
}
