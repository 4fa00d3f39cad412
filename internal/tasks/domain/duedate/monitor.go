// Package duedate decides which tasks deserve a due-date alert.
package duedate

import (
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
)

// DefaultWindow is how far ahead a due date counts as due soon.
const DefaultWindow = 24 * time.Hour

// Kind classifies an alert.
type Kind string

const (
	KindOverdue Kind = "overdue"
	KindDueSoon Kind = "due_soon"
)

// Alert is a task flagged by the monitor.
type Alert struct {
	Task      *task.Task
	Kind      Kind
	Remaining time.Duration
}

// Monitor evaluates due dates against a clock reading.
type Monitor struct {
	Window time.Duration
}

// NewMonitor creates a monitor. A non-positive window falls back to DefaultWindow.
func NewMonitor(window time.Duration) Monitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return Monitor{Window: window}
}

func (m Monitor) window() time.Duration {
	if m.Window <= 0 {
		return DefaultWindow
	}
	return m.Window
}

// Check classifies a single task. It returns false for done tasks, tasks without
// a parseable due date and tasks due after the window.
func (m Monitor) Check(t *task.Task, now time.Time) (Alert, bool) {
	if t.IsDone() {
		return Alert{}, false
	}
	due, ok := t.DueDate().Time()
	if !ok {
		return Alert{}, false
	}

	remaining := due.Sub(now)
	switch {
	case remaining < 0:
		return Alert{Task: t, Kind: KindOverdue, Remaining: remaining}, true
	case remaining <= m.window():
		return Alert{Task: t, Kind: KindDueSoon, Remaining: remaining}, true
	default:
		return Alert{}, false
	}
}

// Evaluate returns the alerts for tasks, in input order.
func (m Monitor) Evaluate(tasks []*task.Task, now time.Time) []Alert {
	var alerts []Alert
	for _, t := range tasks {
		if a, ok := m.Check(t, now); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// DueSoon filters alerts down to KindDueSoon.
func DueSoon(alerts []Alert) []Alert {
	var out []Alert
	for _, a := range alerts {
		if a.Kind == KindDueSoon {
			out = append(out, a)
		}
	}
	return out
}
