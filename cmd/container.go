package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/compozy/effortsync/internal/config"
	"github.com/compozy/effortsync/internal/orchestrator"
	"github.com/compozy/effortsync/internal/repository"
	"github.com/compozy/effortsync/internal/service"
)

// container holds all the dependencies for the application.

type container struct {
	cfg    *config.Config
	logger *zap.Logger

	fsRepo     repository.FileSystemRepository
	statsRepo  repository.StatsRepository
	actionsSvc service.ActionsService
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	return &container{
		cfg:        cfg,
		logger:     logger,
		fsRepo:     fsRepo,
		statsRepo:  repository.NewJSONStatsRepository(fsRepo, cfg.StatsFile),
		actionsSvc: service.NewActionsService(fsRepo),
	}, nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	rootCmd.AddCommand(newVersionCmd())
	// GitHub-backed commands are only wired when a token is configured
	if c.cfg.GithubToken == "" {
		return nil
	}
	ghRepo, err := repository.NewGithubRepository(c.cfg.GithubToken, c.cfg.GithubOwner, c.cfg.GithubRepo)
	if err != nil {
		return fmt.Errorf("failed to initialize GitHub repository: %w", err)
	}
	projectRepo, err := repository.NewProjectRepository(c.cfg.GithubToken)
	if err != nil {
		return fmt.Errorf("failed to initialize project repository: %w", err)
	}
	statsOrch := orchestrator.NewStatsOrchestrator(ghRepo, c.statsRepo, c.actionsSvc, c.logger)
	rootCmd.AddCommand(NewPRStatsCmd(c, statsOrch))
	syncOrch := orchestrator.NewSyncOrchestrator(projectRepo, ghRepo, c.statsRepo, c.actionsSvc, c.logger)
	rootCmd.AddCommand(NewProjectSyncCmd(c, syncOrch))
	return nil
}
