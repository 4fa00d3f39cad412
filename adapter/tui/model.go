package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/ordering"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

// Form field order.
const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldCount
)

// statusFilters is the cycle of the filter key.
var statusFilters = []ordering.StatusFilter{ordering.StatusAll, ordering.StatusPending, ordering.StatusDone}

type tickMsg time.Time

// Model is the bubbletea model of the widget.
type Model struct {
	ctx      context.Context
	svc      Service
	interval time.Duration

	query    queries.ListTasksQuery
	tasks    []queries.TaskDTO
	cursor   int
	progress store.Progress

	mode     mode
	form     []textinput.Model
	focus    int
	search   textinput.Model
	bar      progress.Model
	help     help.Model
	showHelp bool

	alerts []string
	err    error
	width  int
}

// New creates the widget model. interval is how often due dates are checked.
func New(ctx context.Context, svc Service, interval time.Duration) *Model {
	if interval <= 0 {
		interval = time.Minute
	}

	form := make([]textinput.Model, fieldCount)
	placeholders := [fieldCount]string{"title", "description", "due (YYYY-MM-DD)", "priority (low, medium, high)"}
	for i := range form {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		form[i] = ti
	}
	form[fieldDescription].CharLimit = 2000

	search := textinput.New()
	search.Placeholder = "search..."
	search.Prompt = "/ "

	m := &Model{
		ctx:      ctx,
		svc:      svc,
		interval: interval,
		query:    queries.ListTasksQuery{Sort: string(ordering.SortDueDate), Status: string(ordering.StatusAll)},
		form:     form,
		search:   search,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:     help.New(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.raise(m.svc.CheckDue(m.ctx))
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 20; w > 10 {
			m.bar.Width = w
		}
		return m, nil
	case tickMsg:
		m.raise(m.svc.CheckDue(m.ctx))
		m.refresh()
		return m, m.tick()
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.complete):
		if t, ok := m.selected(); ok {
			m.err = m.svc.Complete(m.ctx, t.ID)
			m.afterCommand()
		}
	case key.Matches(msg, keys.del):
		if t, ok := m.selected(); ok {
			m.err = m.svc.Delete(m.ctx, t.ID)
			m.afterCommand()
		}
	case key.Matches(msg, keys.add):
		m.mode = modeAdd
		m.err = nil
		m.focus = fieldTitle
		return m, m.form[fieldTitle].Focus()
	case key.Matches(msg, keys.search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, keys.sort):
		if m.query.Sort == string(ordering.SortPriority) {
			m.query.Sort = string(ordering.SortDueDate)
		} else {
			m.query.Sort = string(ordering.SortPriority)
		}
		m.refresh()
	case key.Matches(msg, keys.filter):
		m.query.Status = string(nextFilter(ordering.StatusFilter(m.query.Status)))
		m.refresh()
	case key.Matches(msg, keys.help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closeForm()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField((m.focus + 1) % fieldCount)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case tea.KeyEnter:
		cmd := commands.AddTaskCommand{
			Title:       m.form[fieldTitle].Value(),
			Description: m.form[fieldDescription].Value(),
			DueDate:     m.form[fieldDue].Value(),
			Priority:    m.form[fieldPriority].Value(),
		}
		if err := m.svc.Add(m.ctx, cmd); err != nil {
			m.err = err
			return m, nil
		}
		m.closeForm()
		m.afterCommand()
		return m, nil
	}

	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query.Search = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.form[m.focus].Blur()
	m.focus = i
	return m.form[i].Focus()
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.form {
		m.form[i].Blur()
		m.form[i].SetValue("")
	}
}

func (m *Model) afterCommand() {
	m.raise(m.svc.Notifications())
	m.raise(m.svc.CheckDue(m.ctx))
	m.refresh()
}

func (m *Model) raise(ns []notify.Notification) {
	for _, n := range ns {
		m.alerts = append(m.alerts, n.Message)
	}
	if len(m.alerts) > 3 {
		m.alerts = m.alerts[len(m.alerts)-3:]
	}
}

func (m *Model) refresh() {
	tasks, err := m.svc.List(m.ctx, m.query)
	if err != nil {
		m.err = err
		return
	}
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
	m.progress = m.svc.Progress(m.ctx)
}

func (m *Model) selected() (queries.TaskDTO, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return queries.TaskDTO{}, false
	}
	return m.tasks[m.cursor], true
}

func nextFilter(current ordering.StatusFilter) ordering.StatusFilter {
	for i, f := range statusFilters {
		if f == current {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return statusFilters[0]
}

func (m *Model) summary() string {
	return fmt.Sprintf("%d/%d done", m.progress.Done, m.progress.Total)
}
