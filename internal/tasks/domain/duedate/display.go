package duedate

import (
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
)

// Display is the visual class a renderer applies to a task.
type Display string

const (
	DisplayNormal   Display = "normal"
	DisplayUpcoming Display = "upcoming"
	DisplayOverdue  Display = "overdue"
	DisplayDone     Display = "done"
)

// Classify returns the display class of t at now.
func (m Monitor) Classify(t *task.Task, now time.Time) Display {
	if t.IsDone() {
		return DisplayDone
	}
	a, ok := m.Check(t, now)
	if !ok {
		return DisplayNormal
	}
	if a.Kind == KindOverdue {
		return DisplayOverdue
	}
	return DisplayUpcoming
}
