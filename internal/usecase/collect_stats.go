package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

// CollectStatsUseCase contains the logic for the pr-stats command.

type CollectStatsUseCase struct {
	PRRepo repository.PullRequestRepository
}

// Execute retrieves the full file-change list of a pull request and
// aggregates it into a ChangeStats record. A pull request with no files
// yields a zero-valued record.
func (uc *CollectStatsUseCase) Execute(ctx context.Context, number int) (*domain.ChangeStats, error) {
	files, err := uc.PRRepo.ListChangedFiles(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	return domain.NewChangeStats(files), nil
}
