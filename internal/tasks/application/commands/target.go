package commands

import (
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// Target selects one task. A non-nil TaskID wins; otherwise Position is the
// zero-based index into the most recently listed view.
type Target struct {
	TaskID   uuid.UUID
	Position int
}

// ByID targets the task with the given id.
func ByID(id uuid.UUID) Target { return Target{TaskID: id} }

// AtPosition targets the task at the given zero-based position.
func AtPosition(index int) Target { return Target{Position: index} }

func (t Target) byID() bool { return t.TaskID != uuid.Nil }

// Result identifies the task a command acted on.
type Result struct {
	TaskID uuid.UUID
	Title  string
	Task   *task.Task
}

func resultOf(t *task.Task) *Result {
	return &Result{TaskID: t.ID(), Title: t.Title(), Task: t}
}

type clock func() time.Time
