package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/ordering"
	"github.com/felixgeelhaar/tasker/pkg/config"
	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ContainerService {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.SQLitePath = filepath.Join(cfg.DataDir, "tasker.db")

	c, err := internalApp.NewContainer(context.Background(), cfg, observability.Discard(),
		internalApp.WithKV(kv.NewMemoryStore()))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return NewService(c)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func titles(m *Model) []string {
	out := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Title
	}
	return out
}

func seed(t *testing.T, svc *ContainerService, cmds ...commands.AddTaskCommand) {
	t.Helper()
	for _, cmd := range cmds {
		require.NoError(t, svc.Add(context.Background(), cmd))
	}
}

func TestModel_EmptyList(t *testing.T) {
	m := New(context.Background(), newTestService(t), time.Minute)

	assert.Empty(t, m.tasks)
	assert.Contains(t, m.View(), "No tasks found.")
	assert.Contains(t, m.View(), "0/0 done")
}

func TestModel_AddThroughForm(t *testing.T) {
	m := New(context.Background(), newTestService(t), time.Minute)

	press(m, runes("a"))
	require.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "New task")

	typeText(m, "Write report")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "quarterly")
	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "high")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NoError(t, m.err)
	assert.Equal(t, modeList, m.mode)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Write report", m.tasks[0].Title)
	assert.Equal(t, "quarterly", m.tasks[0].Description)
	assert.Equal(t, "high", m.tasks[0].Priority)
	for _, in := range m.form {
		assert.Empty(t, in.Value())
	}
}

func TestModel_AddValidationErrorKeepsForm(t *testing.T) {
	m := New(context.Background(), newTestService(t), time.Minute)

	press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})

	require.Error(t, m.err)
	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "Error:")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.tasks)
}

func TestModel_CompleteRaisesNotification(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, commands.AddTaskCommand{Title: "Email"})
	m := New(context.Background(), svc, time.Minute)

	press(m, runes("x"))

	require.NoError(t, m.err)
	require.Len(t, m.tasks, 1)
	assert.True(t, m.tasks[0].IsDone())
	assert.Equal(t, 1, m.progress.Done)
	require.Len(t, m.alerts, 1)
	assert.Equal(t, `Task "Email" completed`, m.alerts[0])
	assert.Contains(t, m.View(), "1/1 done")
}

func TestModel_DeleteSelected(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc,
		commands.AddTaskCommand{Title: "A", DueDate: "2030-01-01"},
		commands.AddTaskCommand{Title: "B", DueDate: "2030-01-02"},
	)
	m := New(context.Background(), svc, time.Minute)

	press(m, runes("j"))
	assert.Equal(t, 1, m.cursor)
	press(m, runes("d"))

	assert.Equal(t, []string{"A"}, titles(m))
	assert.Equal(t, 0, m.cursor)

	press(m, runes("d"), runes("d"))
	assert.Empty(t, m.tasks)
	assert.NoError(t, m.err)
}

func TestModel_SortAndFilter(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc,
		commands.AddTaskCommand{Title: "Low soon", DueDate: "2030-01-01", Priority: "low"},
		commands.AddTaskCommand{Title: "High later", DueDate: "2030-02-01", Priority: "high"},
	)
	m := New(context.Background(), svc, time.Minute)
	assert.Equal(t, []string{"Low soon", "High later"}, titles(m))

	press(m, runes("s"))
	assert.Equal(t, string(ordering.SortPriority), m.query.Sort)
	assert.Equal(t, []string{"High later", "Low soon"}, titles(m))

	press(m, runes("x"))
	press(m, runes("f"))
	assert.Equal(t, string(ordering.StatusPending), m.query.Status)
	assert.Equal(t, []string{"Low soon"}, titles(m))

	press(m, runes("f"))
	assert.Equal(t, string(ordering.StatusDone), m.query.Status)
	assert.Equal(t, []string{"High later"}, titles(m))

	press(m, runes("f"))
	assert.Equal(t, string(ordering.StatusAll), m.query.Status)
	assert.Len(t, m.tasks, 2)
}

func TestModel_LiveSearch(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc,
		commands.AddTaskCommand{Title: "Quarterly report"},
		commands.AddTaskCommand{Title: "Email Bob"},
	)
	m := New(context.Background(), svc, time.Minute)

	press(m, runes("/"))
	require.Equal(t, modeSearch, m.mode)
	typeText(m, "rep")

	assert.Equal(t, []string{"Quarterly report"}, titles(m))

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "rep", m.query.Search)

	press(m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.query.Search)
	assert.Len(t, m.tasks, 2)
}

func TestModel_DueSoonNotifiedOnce(t *testing.T) {
	svc := newTestService(t)
	due := time.Now().Add(time.Hour).Format(time.RFC3339)
	seed(t, svc, commands.AddTaskCommand{Title: "Call", DueDate: due})
	m := New(context.Background(), svc, time.Minute)

	cmd := m.Init()
	require.NotNil(t, cmd)
	require.Len(t, m.alerts, 1)
	assert.Contains(t, m.alerts[0], `Task "Call" is due soon`)

	_, cmd = m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Len(t, m.alerts, 1)
	assert.Contains(t, m.View(), "🔔")
}

func TestModel_Quit(t *testing.T) {
	m := New(context.Background(), newTestService(t), time.Minute)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m := New(context.Background(), newTestService(t), time.Minute)

	assert.False(t, m.help.ShowAll)
	press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	press(m, runes("?"))
	assert.False(t, m.help.ShowAll)
}
