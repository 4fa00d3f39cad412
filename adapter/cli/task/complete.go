package task

import (
	"fmt"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var completeQuery queries.ListTasksQuery

var completeCmd = &cobra.Command{
	Use:   "complete <ref>",
	Short: "Mark a task as complete",
	Long: `Mark a task as complete by id, id prefix or list position.

Examples:
  tasker task complete 2                  # Second task by due date
  tasker task complete 1 --sort priority  # Most important task
  tasker task complete 550e8400`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		target, err := app.ResolveTarget(ctx, args[0], completeQuery)
		if err != nil {
			return err
		}

		result, err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{Target: target})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s (%s)\n", result.Title, result.TaskID.String()[:8])
		return nil
	},
}

func init() {
	addQueryFlags(completeCmd, &completeQuery)
}
