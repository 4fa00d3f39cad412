package notify

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/google/uuid"
)

// Completed builds the notification for a completed task.
func Completed(id uuid.UUID, title string, at time.Time) Notification {
	return Notification{
		Kind:    KindCompleted,
		TaskID:  id,
		Title:   title,
		Message: fmt.Sprintf("Task %q completed", title),
		At:      at,
	}
}

// FromAlert builds the notification for a due-date alert.
func FromAlert(a duedate.Alert, at time.Time) Notification {
	title := a.Task.Title()
	n := Notification{TaskID: a.Task.ID(), Title: title, At: at}
	switch a.Kind {
	case duedate.KindOverdue:
		n.Kind = KindOverdue
		n.Message = fmt.Sprintf("Task %q is overdue by %s", title, roundDuration(-a.Remaining))
	default:
		n.Kind = KindDueSoon
		n.Message = fmt.Sprintf("Task %q is due soon (in %s)", title, roundDuration(a.Remaining))
	}
	return n
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Minute {
		return d.Round(time.Second)
	}
	return d.Round(time.Minute)
}
