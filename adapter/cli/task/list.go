package task

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var (
	listQuery queries.ListTasksQuery
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Examples:
  tasker task list                       # All tasks by due date
  tasker task list --sort priority       # Most important first
  tasker task list --status pending      # Only open tasks
  tasker task list --search report       # Title or description match`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), listQuery)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tasks)
		}
		cli.PrintTasks(out, tasks)
		return nil
	},
}

func init() {
	addQueryFlags(listCmd, &listQuery)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
