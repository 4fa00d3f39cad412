package task

import (
	"fmt"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var deleteQuery queries.ListTasksQuery

var deleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a task",
	Long: `Delete a task by id, id prefix or list position.

Examples:
  tasker task delete 3
  tasker task delete 1 --status done`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		target, err := app.ResolveTarget(ctx, args[0], deleteQuery)
		if err != nil {
			return err
		}

		result, err := app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{Target: target})
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s (%s)\n", result.Title, result.TaskID.String()[:8])
		return nil
	},
}

func init() {
	addQueryFlags(deleteCmd, &deleteQuery)
}
