package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/repository"
)

// Mock for PullRequestRepository
type mockPullRequestRepository struct {
	mock.Mock
}

func (m *mockPullRequestRepository) ListChangedFiles(ctx context.Context, number int) ([]domain.FileChange, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileChange), args.Error(1)
}

// Mock for IssueRepository
type mockIssueRepository struct {
	mock.Mock
}

func (m *mockIssueRepository) SearchByTitle(ctx context.Context, text string) (*domain.Issue, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *mockIssueRepository) Create(
	ctx context.Context,
	title, body string,
	assignees []string,
) (*domain.Issue, error) {
	args := m.Called(ctx, title, body, assignees)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *mockIssueRepository) Update(ctx context.Context, number int, title, body string) (*domain.Issue, error) {
	args := m.Called(ctx, number, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *mockIssueRepository) AddAssignees(ctx context.Context, number int, assignees []string) error {
	args := m.Called(ctx, number, assignees)
	return args.Error(0)
}

// Mock for ProjectRepository
type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) ListProjects(ctx context.Context, org string) ([]domain.Project, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *mockProjectRepository) ListFields(ctx context.Context, projectID string) ([]domain.ProjectField, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectField), args.Error(1)
}

func (m *mockProjectRepository) ListItems(
	ctx context.Context,
	projectID, cursor string,
) (*repository.ProjectItemPage, error) {
	args := m.Called(ctx, projectID, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ProjectItemPage), args.Error(1)
}

func (m *mockProjectRepository) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	args := m.Called(ctx, projectID, contentID)
	return args.String(0), args.Error(1)
}

func (m *mockProjectRepository) UpdateNumberField(
	ctx context.Context,
	projectID, itemID, fieldID string,
	value float64,
) error {
	args := m.Called(ctx, projectID, itemID, fieldID, value)
	return args.Error(0)
}

func (m *mockProjectRepository) UpdateTextField(
	ctx context.Context,
	projectID, itemID, fieldID, value string,
) error {
	args := m.Called(ctx, projectID, itemID, fieldID, value)
	return args.Error(0)
}

func (m *mockProjectRepository) UpdateSelectField(
	ctx context.Context,
	projectID, itemID, fieldID, optionID string,
) error {
	args := m.Called(ctx, projectID, itemID, fieldID, optionID)
	return args.Error(0)
}

func (m *mockProjectRepository) ResolveUserID(ctx context.Context, login string) (string, error) {
	args := m.Called(ctx, login)
	return args.String(0), args.Error(1)
}

// Mock for StatsRepository
type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) Save(ctx context.Context, stats *domain.ChangeStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *mockStatsRepository) Load(ctx context.Context) (*domain.ChangeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChangeStats), args.Error(1)
}

func (m *mockStatsRepository) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// Mock for ActionsService
type mockActionsService struct {
	mock.Mock
}

func (m *mockActionsService) SetOutput(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *mockActionsService) AddSummary(markdown string) error {
	args := m.Called(markdown)
	return args.Error(0)
}
