package cli

import (
	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Check due dates and notify tasks due soon",
	Long: `Evaluate every pending task once. Tasks due within the alert window
(due_soon_window, 24h by default) raise a notification; overdue tasks are
listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		result := app.CheckDueHandler.Handle(cmd.Context())
		printAlerts(cmd.OutOrStdout(), result.Alerts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
}
