package task

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/pkg/config"
	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	cli.AddCommand(Cmd)
}

// setupTestApp wires a file-backed container into the CLI.
func setupTestApp(t *testing.T) *internalApp.Container {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	container, err := internalApp.NewContainer(context.Background(), cfg, observability.Discard())
	require.NoError(t, err)

	cli.SetApp(cli.NewApp(container))
	t.Cleanup(func() {
		cli.SetApp(nil)
		container.Close()
	})
	return container
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cli.Run(context.Background(), &out, args...)
	return out.String(), err
}

func listTitles(t *testing.T, args ...string) []string {
	t.Helper()
	out, err := run(t, append([]string{"task", "list", "--json"}, args...)...)
	require.NoError(t, err)

	var tasks []queries.TaskDTO
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	titles := make([]string, len(tasks))
	for i, tk := range tasks {
		titles[i] = tk.Title
	}
	return titles
}

func TestTaskWorkflow(t *testing.T) {
	container := setupTestApp(t)

	out, err := run(t, "task", "add", "Report", "--due", "2026-11-02", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Task added: Report")

	_, err = run(t, "task", "add", "Email", "--due", "2026-11-01", "-p", "low")
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Report"}, listTitles(t))
	assert.Equal(t, []string{"Report", "Email"}, listTitles(t, "--sort", "priority"))

	// Position 1 in priority order is Report.
	out, err = run(t, "task", "complete", "1", "--sort", "priority")
	require.NoError(t, err)
	assert.Contains(t, out, "Task completed: Report")

	assert.Equal(t, []string{"Email"}, listTitles(t, "--status", "pending"))
	assert.Equal(t, []string{"Report"}, listTitles(t, "--status", "done"))
	assert.Equal(t, 50, container.ProgressHandler.Handle(context.Background()).Percent)

	out, err = run(t, "task", "delete", "1", "--status", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted: Report")
	assert.Equal(t, []string{"Email"}, listTitles(t))
}

func TestTaskList_Text(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "task", "add", "Report", "-d", "quarterly numbers", "--due", "2026-11-02", "-p", "high")
	require.NoError(t, err)

	out, err := run(t, "task", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Tasks (1):")
	assert.Contains(t, out, " 1. [ ] Report (!!)")
	assert.Contains(t, out, "quarterly numbers")
	assert.Contains(t, out, "Due: Mon, Nov 2 2026")
}

func TestTaskList_Empty(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "task", "list", "--search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestTaskComplete_ByIDPrefix(t *testing.T) {
	container := setupTestApp(t)
	_, err := run(t, "task", "add", "Report")
	require.NoError(t, err)
	id := container.Store.Snapshot()[0].ID().String()

	out, err := run(t, "task", "complete", id[:8])

	require.NoError(t, err)
	assert.Contains(t, out, "Task completed: Report")
}

func TestTaskCommands_Errors(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, "task", "add", "Report")
	require.NoError(t, err)

	t.Run("blank title", func(t *testing.T) {
		_, err := run(t, "task", "add", "   ")
		assert.ErrorIs(t, err, task.ErrEmptyTitle)
	})

	t.Run("bad priority", func(t *testing.T) {
		_, err := run(t, "task", "add", "x", "--priority", "urgent")
		var ve *task.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("position out of range", func(t *testing.T) {
		_, err := run(t, "task", "complete", "5")
		var ie *task.IndexError
		assert.ErrorAs(t, err, &ie)
	})

	t.Run("position zero", func(t *testing.T) {
		_, err := run(t, "task", "delete", "0")
		assert.Error(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := run(t, "task", "delete", "ffffffff")
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := run(t, "task", "list", "--sort", "size")
		assert.Error(t, err)
	})
}
