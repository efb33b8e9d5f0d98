package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
	"github.com/compozy/effortsync/internal/service"
	"github.com/compozy/effortsync/internal/usecase"
)

// StatsOrchestrator orchestrates the pr-stats workflow: collect the
// pull request's change statistics, persist them for the sync step, and
// report them to the invoking workflow.
type StatsOrchestrator struct {
	collectStats *usecase.CollectStatsUseCase
	statsRepo    repository.StatsRepository
	actionsSvc   service.ActionsService
	logger       *zap.Logger
}

// NewStatsOrchestrator creates a new stats orchestrator.
func NewStatsOrchestrator(
	prRepo repository.PullRequestRepository,
	statsRepo repository.StatsRepository,
	actionsSvc service.ActionsService,
	logger *zap.Logger,
) *StatsOrchestrator {
	return &StatsOrchestrator{
		collectStats: &usecase.CollectStatsUseCase{PRRepo: prRepo},
		statsRepo:    statsRepo,
		actionsSvc:   actionsSvc,
		logger:       logger,
	}
}

// Execute runs the complete stats workflow. Unlike the sync, a failure here
// fails the step: the stats artifact is the workflow's product.
func (o *StatsOrchestrator) Execute(ctx context.Context, prNumber int) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	if err := ValidateEnvironmentVariables([]string{"GITHUB_TOKEN"}); err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}
	stats, err := o.collectStats.Execute(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}
	o.logger.Info("collected pull request stats",
		zap.Int("pr", prNumber),
		zap.Int("files_changed", stats.FilesChanged),
		zap.Int("additions", stats.Additions),
		zap.Int("deletions", stats.Deletions),
		zap.Float64("effort", stats.Effort))
	if err := o.statsRepo.Save(ctx, stats); err != nil {
		return fmt.Errorf("failed to persist stats: %w", err)
	}
	if err := o.emitOutputs(stats); err != nil {
		return fmt.Errorf("failed to emit workflow outputs: %w", err)
	}
	return nil
}

func (o *StatsOrchestrator) emitOutputs(stats *domain.ChangeStats) error {
	outputs := []struct {
		key   string
		value string
	}{
		{"files_changed", fmt.Sprintf("%d", stats.FilesChanged)},
		{"additions", fmt.Sprintf("%d", stats.Additions)},
		{"deletions", fmt.Sprintf("%d", stats.Deletions)},
		{"total_changes", fmt.Sprintf("%d", stats.TotalChanges)},
		{"effort", fmt.Sprintf("%.2f", stats.Effort)},
	}
	for _, out := range outputs {
		if err := o.actionsSvc.SetOutput(out.key, out.value); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf(
		"### PR Stats\n\n"+
			"| Files | Additions | Deletions | Total | Effort |\n"+
			"|---|---|---|---|---|\n"+
			"| %d | %d | %d | %d | %.2f |",
		stats.FilesChanged, stats.Additions, stats.Deletions, stats.TotalChanges, stats.Effort,
	)
	return o.actionsSvc.AddSummary(summary)
}
