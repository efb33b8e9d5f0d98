package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "effortsync",
	Short: "A CLI tool for syncing pull-request effort stats to a project board",
	Long:  `effortsync computes pull-request change statistics and keeps a tracking issue on an organization project board in sync with the pull request.`,
}

func Execute() error {
	return rootCmd.Execute()
}
