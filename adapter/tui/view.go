package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	upcomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	normalStyle   = lipgloss.NewStyle()
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	bannerStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
)

func displayStyle(d duedate.Display) lipgloss.Style {
	switch d {
	case duedate.DisplayDone:
		return doneStyle
	case duedate.DisplayOverdue:
		return overdueStyle
	case duedate.DisplayUpcoming:
		return upcomingStyle
	default:
		return normalStyle
	}
}

func priorityMark(p string) string {
	switch p {
	case "high":
		return "!!"
	case "medium":
		return "! "
	default:
		return "  "
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  sort: %s  status: %s", m.query.Sort, m.query.Status)))
	b.WriteString("\n\n")

	for _, a := range m.alerts {
		b.WriteString(bannerStyle.Render("🔔 " + a))
		b.WriteString("\n")
	}
	if len(m.alerts) > 0 {
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdd:
		b.WriteString(m.formView())
	default:
		b.WriteString(m.listView())
		if m.mode == modeSearch || m.query.Search != "" {
			b.WriteString("\n")
			b.WriteString(m.search.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.progress.Fraction))
	b.WriteString(" ")
	b.WriteString(m.summary())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.mode == modeList {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func (m *Model) listView() string {
	if len(m.tasks) == 0 {
		return dimStyle.Render("No tasks found.") + "\n"
	}

	var b strings.Builder
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if t.IsDone() {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", check, priorityMark(t.Priority), t.Title)
		if due := dueLabel(t); due != "" {
			line += "  " + due
		}
		b.WriteString(cursor)
		b.WriteString(displayStyle(t.Display).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func dueLabel(t queries.TaskDTO) string {
	if t.Due == nil {
		return ""
	}
	layout := "Jan 2 15:04"
	if t.DateOnly {
		layout = "Jan 2"
	}
	return "(" + t.Due.Local().Format(layout) + ")"
}

func (m *Model) formView() string {
	labels := [fieldCount]string{"Title", "Description", "Due", "Priority"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n\n")
	for i, in := range m.form {
		b.WriteString(fmt.Sprintf("%-12s %s\n", labels[i], in.View()))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: next field • enter: save • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}
