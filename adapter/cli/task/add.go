package task

import (
	"fmt"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/spf13/cobra"
)

var addInput commands.AddTaskCommand

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task with an explicit due date and priority.

Examples:
  tasker task add "Write report" --due 2026-11-02 --priority high
  tasker task add "Email" -d "reply to Sam" --due 2026-10-15T17:00:00+02:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		input := addInput
		input.Title = args[0]
		result, err := app.AddTaskHandler.Handle(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task added: %s (%s)\n", result.Task.Title(), result.TaskID.String()[:8])
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addInput.Description, "description", "d", "", "task description")
	addCmd.Flags().StringVar(&addInput.DueDate, "due", "", "due date (YYYY-MM-DD, DD/MM/YYYY or RFC 3339)")
	addCmd.Flags().StringVarP(&addInput.Priority, "priority", "p", "", "priority (low, medium, high; default medium)")
}
