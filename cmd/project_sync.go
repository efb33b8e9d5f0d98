package cmd

import (
	"github.com/spf13/cobra"

	"github.com/compozy/effortsync/internal/domain"
	"github.com/compozy/effortsync/internal/orchestrator"
)

// NewProjectSyncCmd creates the project-sync command
func NewProjectSyncCmd(c *container, orch *orchestrator.SyncOrchestrator) *cobra.Command {
	var (
		projectName string
		weight      float64
	)
	cmd := &cobra.Command{
		Use:   "project-sync",
		Short: "Sync the pull request's tracking issue onto the project board",
		Long: `Sync a tracking issue for the pull request onto the organization project board.

This command reconciles one tracking issue and one project item with the
pull request: it resolves the project by name, finds or creates the
tracking issue, attaches it to the project and writes the computed field
values. Failures are logged but never fail the workflow step.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.ValidateForPullRequest(); err != nil {
				return err
			}
			name := projectName
			if name == "" {
				name = c.cfg.ProjectName
			}
			w := weight
			if w == 0 {
				w = c.cfg.Weight
			}
			return orch.Run(cmd.Context(), orchestrator.SyncConfig{
				PR: domain.PullRequest{
					Number:     c.cfg.PRNumber,
					NodeID:     c.cfg.PRNodeID,
					URL:        c.cfg.PRURL,
					Title:      c.cfg.PRTitle,
					Author:     c.cfg.PRAuthor,
					Repository: c.cfg.GithubRepo,
					Org:        c.cfg.GithubOwner,
				},
				ProjectName: name,
				Weight:      w,
			})
		},
	}
	cmd.Flags().StringVar(&projectName, "project", "", "Project board display name (defaults to PROJECT_NAME, then \"Efforts\")")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight value written to the project item (defaults to PR_WEIGHT)")
	return cmd
}
