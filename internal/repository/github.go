package repository

import (
	"context"

	"github.com/compozy/effortsync/internal/domain"
)

// PullRequestRepository defines the read operations against pull requests.

type PullRequestRepository interface {
	// ListChangedFiles returns the complete file-change list of a pull
	// request, paging through the API until a short page signals the end.
	ListChangedFiles(ctx context.Context, number int) ([]domain.FileChange, error)
}

// IssueRepository defines the issue operations used by the tracking sync.

type IssueRepository interface {
	// SearchByTitle finds the first issue in the repository whose title
	// contains the given text. Returns nil when nothing matches.
	SearchByTitle(ctx context.Context, text string) (*domain.Issue, error)
	Create(ctx context.Context, title, body string, assignees []string) (*domain.Issue, error)
	Update(ctx context.Context, number int, title, body string) (*domain.Issue, error)
	AddAssignees(ctx context.Context, number int, assignees []string) error
}
