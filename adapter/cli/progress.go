package cli

import (
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how many tasks are done",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		printProgress(cmd.OutOrStdout(), app.ProgressHandler.Handle(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
}
