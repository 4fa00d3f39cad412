package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// styles holds the lipgloss styles of one output stream.
type styles struct {
	title    lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	upcoming lipgloss.Style
	muted    lipgloss.Style
	bar      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true),
		done:     r.NewStyle().Faint(true).Strikethrough(true),
		overdue:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		upcoming: r.NewStyle().Foreground(lipgloss.Color("11")),
		muted:    r.NewStyle().Faint(true),
		bar:      r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func statusIcon(d queries.TaskDTO) string {
	if d.IsDone() {
		return "[x]"
	}
	return "[ ]"
}

func priorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!!)"
	case "medium":
		return "(!)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func displayMarker(d duedate.Display) string {
	switch d {
	case duedate.DisplayOverdue:
		return "[OVERDUE]"
	case duedate.DisplayUpcoming:
		return "[DUE SOON]"
	default:
		return ""
	}
}

// formatDue renders a due date for people. Date-only values print as dates.
func formatDue(d queries.TaskDTO) string {
	if d.Due == nil {
		if d.DueDate != "" {
			return d.DueDate + " (unreadable)"
		}
		return ""
	}
	due := d.Due.Local()
	if d.DateOnly {
		return due.Format("Mon, Jan 2 2006")
	}
	return due.Format("Mon, Jan 2 2006 15:04")
}

// PrintTasks writes the list in display order.
func PrintTasks(w io.Writer, tasks []queries.TaskDTO) {
	st := newStyles(w)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Tasks (%d):", len(tasks))))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, t := range tasks {
		title := t.Title
		switch t.Display {
		case duedate.DisplayDone:
			title = st.done.Render(title)
		case duedate.DisplayOverdue:
			title = st.overdue.Render(title)
		case duedate.DisplayUpcoming:
			title = st.upcoming.Render(title)
		}

		line := fmt.Sprintf("%2d. %s %s %s", t.Position, statusIcon(t), title, priorityBadge(t.Priority))
		if marker := displayMarker(t.Display); marker != "" {
			line += " " + marker
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, st.muted.Render("    ID: "+t.ShortID()))
		if t.Description != "" {
			fmt.Fprintf(w, "    %s\n", t.Description)
		}
		if due := formatDue(t); due != "" {
			fmt.Fprintf(w, "    Due: %s\n", due)
		}
	}
}

// progressBar renders p as a fixed-width bar.
func progressBar(p store.Progress, width int) string {
	filled := int(p.Fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func printProgress(w io.Writer, p store.Progress) {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %3d%%  (%d/%d done)\n", st.bar.Render(progressBar(p, 30)), p.Percent, p.Done, p.Total)
}

func printAlerts(w io.Writer, alerts []queries.AlertDTO) {
	st := newStyles(w)
	if len(alerts) == 0 {
		fmt.Fprintln(w, "Nothing due soon.")
		return
	}
	for _, a := range alerts {
		style := st.upcoming
		if a.Kind == duedate.KindOverdue {
			style = st.overdue
		}
		fmt.Fprintln(w, style.Render(a.Message))
	}
}
