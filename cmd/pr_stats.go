package cmd

import (
	"github.com/spf13/cobra"

	"github.com/compozy/effortsync/internal/orchestrator"
)

// NewPRStatsCmd creates the pr-stats command
func NewPRStatsCmd(c *container, orch *orchestrator.StatsOrchestrator) *cobra.Command {
	var prNumber int
	cmd := &cobra.Command{
		Use:   "pr-stats",
		Short: "Compute change statistics for a pull request",
		Long: `Compute aggregate change statistics and an effort score for a pull request.

The command pages through the pull request's changed files, aggregates
additions, deletions and total changes, computes the effort score, writes
the result to the stats artifact for the project-sync step, and emits the
values as workflow outputs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			number := prNumber
			if number == 0 {
				number = c.cfg.PRNumber
			}
			if err := c.cfg.ValidateForGitHubOperations(); err != nil {
				return err
			}
			return orch.Execute(cmd.Context(), number)
		},
	}
	cmd.Flags().IntVar(&prNumber, "pr", 0, "Pull request number (defaults to PR_NUMBER from the event context)")
	return cmd
}
