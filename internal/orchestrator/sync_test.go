package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

type syncFixture struct {
	projectRepo *mockProjectRepository
	issueRepo   *mockIssueRepository
	statsRepo   *mockStatsRepository
	actionsSvc  *mockActionsService
	orch        *SyncOrchestrator
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "test-token")
	f := &syncFixture{
		projectRepo: new(mockProjectRepository),
		issueRepo:   new(mockIssueRepository),
		statsRepo:   new(mockStatsRepository),
		actionsSvc:  new(mockActionsService),
	}
	f.orch = NewSyncOrchestrator(f.projectRepo, f.issueRepo, f.statsRepo, f.actionsSvc, zap.NewNop())
	return f
}

func syncConfig() SyncConfig {
	return SyncConfig{
		PR: domain.PullRequest{
			Number:     42,
			NodeID:     "PR_node",
			URL:        "https://github.com/acme/widgets/pull/42",
			Title:      "Fix the flux capacitor",
			Author:     "octocat",
			Repository: "widgets",
			Org:        "acme",
		},
		ProjectName: "Efforts",
		Weight:      1.5,
	}
}

func fullSchemaFields() []domain.ProjectField {
	return []domain.ProjectField{
		{ID: "F_effort", Name: "Effort", DataType: "NUMBER"},
		{ID: "F_weight", Name: "Weight", DataType: "NUMBER"},
		{ID: "F_repo", Name: "RepoName", DataType: "TEXT"},
		{ID: "F_status", Name: "Status", DataType: "SINGLE_SELECT", Options: []domain.FieldOption{
			{ID: "O_todo", Name: "Todo"},
			{ID: "O_done", Name: "Done"},
		}},
	}
}

func (f *syncFixture) expectHappyPathUpToAttachment() {
	stats := domain.NewChangeStats([]domain.FileChange{
		{Path: "a.go", Additions: 100, Deletions: 20, Changes: 120},
	})
	f.statsRepo.On("Load", mock.Anything).Return(stats, nil)
	f.projectRepo.On("ListProjects", mock.Anything, "acme").
		Return([]domain.Project{{ID: "P1", Title: "Efforts", Number: 4}}, nil)
	f.projectRepo.On("ListFields", mock.Anything, "P1").Return(fullSchemaFields(), nil)
	f.projectRepo.On("ResolveUserID", mock.Anything, "octocat").Return("U_1", nil)
	f.projectRepo.On("ListItems", mock.Anything, "P1", "").
		Return(&repository.ProjectItemPage{}, nil)
	f.issueRepo.On("SearchByTitle", mock.Anything, "PR #42:").Return(nil, nil)
	f.issueRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, []string{"octocat"}).
		Return(&domain.Issue{Number: 500, NodeID: "I_new"}, nil)
	f.actionsSvc.On("SetOutput", mock.Anything, mock.Anything).Return(nil)
}

func TestSyncOrchestrator_Run(t *testing.T) {
	t.Run("Should create, attach and populate a new tracking issue", func(t *testing.T) {
		f := newSyncFixture(t)
		f.expectHappyPathUpToAttachment()
		f.projectRepo.On("AddItem", mock.Anything, "P1", "I_new").Return("ITEM_1", nil)
		f.projectRepo.On("UpdateNumberField", mock.Anything, "P1", "ITEM_1", "F_effort", mock.Anything).Return(nil)
		f.projectRepo.On("UpdateNumberField", mock.Anything, "P1", "ITEM_1", "F_weight", 1.5).Return(nil)
		f.projectRepo.On("UpdateTextField", mock.Anything, "P1", "ITEM_1", "F_repo", "widgets").Return(nil)
		f.projectRepo.On("UpdateSelectField", mock.Anything, "P1", "ITEM_1", "F_status", "O_done").Return(nil)
		f.issueRepo.On("AddAssignees", mock.Anything, 500, []string{"octocat"}).Return(nil)
		err := f.orch.Run(context.Background(), syncConfig())
		require.NoError(t, err)
		f.projectRepo.AssertExpectations(t)
		f.actionsSvc.AssertCalled(t, "SetOutput", "project_item_id", "ITEM_1")
		f.actionsSvc.AssertCalled(t, "SetOutput", "repository", "widgets")
	})

	t.Run("Should never fail the workflow even when resolution fails", func(t *testing.T) {
		f := newSyncFixture(t)
		f.statsRepo.On("Load", mock.Anything).
			Return(domain.NewChangeStats(nil), nil)
		f.projectRepo.On("ListProjects", mock.Anything, "acme").
			Return(nil, errors.New("Resource not accessible by integration"))
		err := f.orch.Run(context.Background(), syncConfig())
		assert.NoError(t, err)
	})

	t.Run("Should never fail the workflow when the stats artifact is missing", func(t *testing.T) {
		f := newSyncFixture(t)
		f.statsRepo.On("Load", mock.Anything).Return(nil, errors.New("stats artifact not found"))
		err := f.orch.Run(context.Background(), syncConfig())
		assert.NoError(t, err)
		f.projectRepo.AssertNotCalled(t, "ListProjects")
	})

	t.Run("Should skip field updates when attachment fails", func(t *testing.T) {
		f := newSyncFixture(t)
		f.expectHappyPathUpToAttachment()
		f.projectRepo.On("AddItem", mock.Anything, "P1", "I_new").
			Return("", errors.New("mutation failed"))
		err := f.orch.Run(context.Background(), syncConfig())
		require.NoError(t, err)
		f.projectRepo.AssertNotCalled(t, "UpdateNumberField")
		f.projectRepo.AssertNotCalled(t, "UpdateTextField")
		f.projectRepo.AssertNotCalled(t, "UpdateSelectField")
		f.actionsSvc.AssertCalled(t, "SetOutput", "project_item_id", "")
	})

	t.Run("Should isolate individual field write failures", func(t *testing.T) {
		f := newSyncFixture(t)
		f.expectHappyPathUpToAttachment()
		f.projectRepo.On("AddItem", mock.Anything, "P1", "I_new").Return("ITEM_1", nil)
		f.projectRepo.On("UpdateNumberField", mock.Anything, "P1", "ITEM_1", "F_effort", mock.Anything).
			Return(errors.New("effort write failed"))
		f.projectRepo.On("UpdateNumberField", mock.Anything, "P1", "ITEM_1", "F_weight", 1.5).Return(nil)
		f.projectRepo.On("UpdateTextField", mock.Anything, "P1", "ITEM_1", "F_repo", "widgets").Return(nil)
		f.projectRepo.On("UpdateSelectField", mock.Anything, "P1", "ITEM_1", "F_status", "O_done").Return(nil)
		f.issueRepo.On("AddAssignees", mock.Anything, 500, []string{"octocat"}).Return(nil)
		err := f.orch.Run(context.Background(), syncConfig())
		require.NoError(t, err)
		// The failed effort write must not stop the remaining fields.
		f.projectRepo.AssertCalled(t, "UpdateTextField", mock.Anything, "P1", "ITEM_1", "F_repo", "widgets")
		f.projectRepo.AssertCalled(t, "UpdateSelectField", mock.Anything, "P1", "ITEM_1", "F_status", "O_done")
	})

	t.Run("Should skip the status write when no done-like option exists", func(t *testing.T) {
		f := newSyncFixture(t)
		stats := domain.NewChangeStats(nil)
		f.statsRepo.On("Load", mock.Anything).Return(stats, nil)
		f.projectRepo.On("ListProjects", mock.Anything, "acme").
			Return([]domain.Project{{ID: "P1", Title: "Efforts"}}, nil)
		f.projectRepo.On("ListFields", mock.Anything, "P1").Return([]domain.ProjectField{
			{ID: "F_status", Name: "Status", Options: []domain.FieldOption{{ID: "O_todo", Name: "Todo"}}},
		}, nil)
		f.projectRepo.On("ResolveUserID", mock.Anything, "octocat").Return("U_1", nil)
		f.projectRepo.On("ListItems", mock.Anything, "P1", "").
			Return(&repository.ProjectItemPage{}, nil)
		f.issueRepo.On("SearchByTitle", mock.Anything, "PR #42:").Return(nil, nil)
		f.issueRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, []string{"octocat"}).
			Return(&domain.Issue{Number: 500, NodeID: "I_new"}, nil)
		f.projectRepo.On("AddItem", mock.Anything, "P1", "I_new").Return("ITEM_1", nil)
		f.issueRepo.On("AddAssignees", mock.Anything, 500, []string{"octocat"}).Return(nil)
		f.actionsSvc.On("SetOutput", mock.Anything, mock.Anything).Return(nil)
		err := f.orch.Run(context.Background(), syncConfig())
		require.NoError(t, err)
		f.projectRepo.AssertNotCalled(t, "UpdateSelectField")
	})

	t.Run("Should re-assign the author on a found issue", func(t *testing.T) {
		f := newSyncFixture(t)
		stats := domain.NewChangeStats(nil)
		f.statsRepo.On("Load", mock.Anything).Return(stats, nil)
		f.projectRepo.On("ListProjects", mock.Anything, "acme").
			Return([]domain.Project{{ID: "P1", Title: "Efforts"}}, nil)
		f.projectRepo.On("ListFields", mock.Anything, "P1").Return([]domain.ProjectField{}, nil)
		f.projectRepo.On("ResolveUserID", mock.Anything, "octocat").Return("U_1", nil)
		item := domain.ProjectItem{
			ID:          "ITEM_1",
			ContentType: "Issue",
			Title:       "PR #42: Fix the flux capacitor",
			Body:        "**Repository:** widgets\n",
			IssueNumber: 500,
			IssueNodeID: "I_new",
		}
		f.projectRepo.On("ListItems", mock.Anything, "P1", "").
			Return(&repository.ProjectItemPage{Items: []domain.ProjectItem{item}}, nil)
		f.issueRepo.On("Update", mock.Anything, 500, mock.Anything, mock.Anything).
			Return(&domain.Issue{Number: 500, NodeID: "I_new"}, nil)
		f.issueRepo.On("AddAssignees", mock.Anything, 500, []string{"octocat"}).Return(nil)
		f.actionsSvc.On("SetOutput", mock.Anything, mock.Anything).Return(nil)
		err := f.orch.Run(context.Background(), syncConfig())
		require.NoError(t, err)
		f.issueRepo.AssertCalled(t, "AddAssignees", mock.Anything, 500, []string{"octocat"})
		f.projectRepo.AssertNotCalled(t, "AddItem")
	})
}
