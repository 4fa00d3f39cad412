package queries

import (
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is the read model handed to renderers.
type TaskDTO struct {
	ID          uuid.UUID       `json:"id" yaml:"id"`
	Position    int             `json:"position" yaml:"position"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     string          `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Due         *time.Time      `json:"-" yaml:"-"`
	DateOnly    bool            `json:"-" yaml:"-"`
	Priority    string          `json:"priority" yaml:"priority"`
	Status      string          `json:"status" yaml:"status"`
	Display     duedate.Display `json:"display" yaml:"display"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// IsDone reports whether the task is completed.
func (d TaskDTO) IsDone() bool {
	return d.Status == task.StatusDone.String()
}

// ShortID returns the first eight characters of the id.
func (d TaskDTO) ShortID() string {
	return d.ID.String()[:8]
}

func toDTO(t *task.Task, position int, display duedate.Display) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID(),
		Position:    position,
		Title:       t.Title(),
		Description: t.Description(),
		DueDate:     t.DueDate().Raw(),
		Priority:    t.Priority().String(),
		Status:      t.Status().String(),
		Display:     display,
		CreatedAt:   t.CreatedAt(),
		CompletedAt: t.CompletedAt(),
	}
	if due, ok := t.DueDate().Time(); ok {
		dto.Due = &due
		dto.DateOnly = t.DueDate().IsDateOnly()
	}
	return dto
}
