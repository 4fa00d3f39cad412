package task

import (
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Add, list, complete and delete tasks.

Tasks are referred to by a full id, a unique id prefix, or their 1-based
position in the list printed with the same --sort, --status and --search
flags.`,
}

// addQueryFlags binds the ordering flags shared by list, complete and delete.
func addQueryFlags(cmd *cobra.Command, q *queries.ListTasksQuery) {
	cmd.Flags().StringVar(&q.Sort, "sort", "", "sort by due_date (default) or priority")
	cmd.Flags().StringVarP(&q.Status, "status", "s", "", "filter by status (all, pending, done)")
	cmd.Flags().StringVarP(&q.Search, "search", "q", "", "only tasks whose title or description contains this text")
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(deleteCmd)
}
