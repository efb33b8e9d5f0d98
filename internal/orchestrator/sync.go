package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
	"github.com/compozy/effortsync/internal/service"
	"github.com/compozy/effortsync/internal/usecase"
)

// SyncConfig contains the per-run inputs of the project sync.
type SyncConfig struct {
	PR          domain.PullRequest
	ProjectName string
	Weight      float64
}

// SyncOrchestrator reconciles one tracking issue and one project item with
// the current state of a pull request. The sequence is:
//
//	A. resolve the project by display name
//	B. resolve the project's field schema
//	C. find or create the tracking issue (always an upsert)
//	D. ensure the issue is attached to the project
//	E. write the field values
//
// Step A failures abort the sync; every later step isolates its own
// failures so partial progress beats an aborted run.
type SyncOrchestrator struct {
	projectRepo repository.ProjectRepository
	issueRepo   repository.IssueRepository
	statsRepo   repository.StatsRepository
	actionsSvc  service.ActionsService
	logger      *zap.Logger

	resolveProject *usecase.ResolveProjectUseCase
	resolveSchema  *usecase.ResolveSchemaUseCase
	locateIssue    *usecase.LocateIssueUseCase
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	projectRepo repository.ProjectRepository,
	issueRepo repository.IssueRepository,
	statsRepo repository.StatsRepository,
	actionsSvc service.ActionsService,
	logger *zap.Logger,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		projectRepo:    projectRepo,
		issueRepo:      issueRepo,
		statsRepo:      statsRepo,
		actionsSvc:     actionsSvc,
		logger:         logger,
		resolveProject: &usecase.ResolveProjectUseCase{ProjectRepo: projectRepo, Logger: logger},
		resolveSchema:  &usecase.ResolveSchemaUseCase{ProjectRepo: projectRepo, Logger: logger},
		locateIssue:    &usecase.LocateIssueUseCase{ProjectRepo: projectRepo, IssueRepo: issueRepo, Logger: logger},
	}
}

// Run executes the sync and swallows any failure. The hosting workflow step
// must never fail because of project-board flakiness: stat collection is
// the step that matters, and it has already run.
func (o *SyncOrchestrator) Run(ctx context.Context, cfg SyncConfig) error {
	runID := uuid.New().String()
	logger := o.logger.With(zap.String("run_id", runID), zap.Int("pr", cfg.PR.Number))
	if err := o.execute(ctx, logger, cfg); err != nil {
		logger.Error("project sync failed, workflow continues", zap.Error(err))
	}
	return nil
}

func (o *SyncOrchestrator) execute(ctx context.Context, logger *zap.Logger, cfg SyncConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	if err := ValidateEnvironmentVariables([]string{"GITHUB_TOKEN"}); err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}
	stats, err := o.statsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats artifact: %w", err)
	}
	// Step A: project resolution. The only step whose failure aborts.
	project, err := o.resolveProject.Execute(ctx, cfg.PR.Org, cfg.ProjectName)
	if err != nil {
		return err
	}
	logger.Info("resolved project",
		zap.String("project", project.Title),
		zap.Int("number", project.Number))
	// Step B: field schema. Degrades to an empty schema.
	schema, err := o.resolveSchema.Execute(ctx, project.ID, cfg.PR.Author)
	if err != nil {
		logger.Warn("field schema resolution failed, field updates will be skipped", zap.Error(err))
		schema = &domain.FieldSchema{}
	}
	// Step C: find or create the tracking issue.
	title := domain.FormatTrackingTitle(cfg.PR.Number, cfg.PR.Title)
	body := domain.FormatTrackingBody(&cfg.PR, stats, cfg.Weight)
	located, err := o.locateIssue.Execute(ctx, &cfg.PR, project.ID, title, body)
	if err != nil {
		return fmt.Errorf("failed to locate tracking issue: %w", err)
	}
	// Re-assign the author on every run so a found issue also reflects the
	// current PR author. Creation already assigns; this covers the rest.
	if !located.Created {
		if err := o.issueRepo.AddAssignees(ctx, located.Issue.Number, []string{cfg.PR.Author}); err != nil {
			logger.Warn("failed to re-assign author", zap.Error(err))
		}
	}
	// Step D: ensure the issue is attached to the project.
	itemID := located.ItemID
	if itemID == "" {
		itemID, err = o.projectRepo.AddItem(ctx, project.ID, located.Issue.NodeID)
		if err != nil {
			logger.Warn("failed to attach issue to project, skipping field updates", zap.Error(err))
			return o.emitSummary(logger, "", cfg, stats)
		}
		logger.Info("attached issue to project", zap.String("item_id", itemID))
	}
	// Step E: write field values, each write independently fault isolated.
	o.writeFields(ctx, logger, project.ID, itemID, located.Issue.Number, schema, cfg, stats)
	return o.emitSummary(logger, itemID, cfg, stats)
}

// fieldWriter pairs a schema role with its write operation. Writers whose
// role is unresolved in the schema are skipped silently.
type fieldWriter struct {
	role  string
	skip  bool
	write func(ctx context.Context) error
}

func (o *SyncOrchestrator) writeFields(
	ctx context.Context,
	logger *zap.Logger,
	projectID, itemID string,
	issueNumber int,
	schema *domain.FieldSchema,
	cfg SyncConfig,
	stats *domain.ChangeStats,
) {
	writers := []fieldWriter{
		{
			role: "effort",
			skip: schema.Effort == nil,
			write: func(ctx context.Context) error {
				return o.projectRepo.UpdateNumberField(ctx, projectID, itemID, schema.Effort.ID, stats.Effort)
			},
		},
		{
			role: "weight",
			skip: schema.Weight == nil,
			write: func(ctx context.Context) error {
				return o.projectRepo.UpdateNumberField(ctx, projectID, itemID, schema.Weight.ID, cfg.Weight)
			},
		},
		{
			role: "reponame",
			skip: schema.RepoName == nil,
			write: func(ctx context.Context) error {
				return o.projectRepo.UpdateTextField(ctx, projectID, itemID, schema.RepoName.ID, cfg.PR.Repository)
			},
		},
		{
			role: "status",
			skip: schema.Status == nil || schema.DoneOptionID == "",
			write: func(ctx context.Context) error {
				return o.projectRepo.UpdateSelectField(ctx, projectID, itemID, schema.Status.ID, schema.DoneOptionID)
			},
		},
		{
			// Project assignee fields cannot be written directly, so the
			// author is applied through the issue-assignee API instead.
			role: "assignees",
			skip: schema.AuthorUserID == "",
			write: func(ctx context.Context) error {
				return o.issueRepo.AddAssignees(ctx, issueNumber, []string{cfg.PR.Author})
			},
		},
	}
	for _, w := range writers {
		if w.skip {
			logger.Debug("skipping unresolved field", zap.String("role", w.role))
			continue
		}
		if err := w.write(ctx); err != nil {
			fieldErr := &domain.FieldUpdateError{Role: w.role, Err: err}
			logger.Warn("field update failed", zap.String("role", w.role), zap.Error(fieldErr))
		}
	}
}

func (o *SyncOrchestrator) emitSummary(
	logger *zap.Logger,
	itemID string,
	cfg SyncConfig,
	stats *domain.ChangeStats,
) error {
	outputs := []struct {
		key   string
		value string
	}{
		{"project_item_id", itemID},
		{"effort", fmt.Sprintf("%.2f", stats.Effort)},
		{"weight", fmt.Sprintf("%.2f", cfg.Weight)},
		{"repository", cfg.PR.Repository},
	}
	for _, out := range outputs {
		if err := o.actionsSvc.SetOutput(out.key, out.value); err != nil {
			logger.Warn("failed to set workflow output", zap.String("key", out.key), zap.Error(err))
		}
	}
	return nil
}
