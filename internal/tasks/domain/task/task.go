package task

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasker/internal/shared/domain"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid status value")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// ParseStatus creates a Status from a string.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "done":
		return StatusDone, nil
	default:
		return StatusPending, ErrInvalidStatus
	}
}

// Task represents a unit of work to be done.
type Task struct {
	domain.BaseAggregateRoot
	title       string
	description string
	dueDate     value_objects.DueDate
	priority    value_objects.Priority
	status      Status
	completedAt *time.Time
}

// New creates a pending task. The title and description are trimmed.
func New(title, description string, dueDate value_objects.DueDate, priority value_objects.Priority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if !priority.IsValid() {
		return nil, &ValidationError{Field: "priority", Err: value_objects.ErrInvalidPriority}
	}

	now := time.Now().UTC()
	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(now),
		title:             title,
		description:       strings.TrimSpace(description),
		dueDate:           dueDate,
		priority:          priority,
		status:            StatusPending,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title, t.priority.String(), now))

	return t, nil
}

// State is the persisted shape of a task.
type State struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueDate     value_objects.DueDate
	Priority    value_objects.Priority
	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Rehydrate recreates a task from persisted state without recording events.
func Rehydrate(s State) (*Task, error) {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	t := &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(s.ID, s.CreatedAt),
		title:             title,
		description:       s.Description,
		dueDate:           s.DueDate,
		priority:          s.Priority,
		status:            s.Status,
	}
	if s.CompletedAt != nil {
		at := s.CompletedAt.UTC()
		t.completedAt = &at
	}
	return t, nil
}

// State returns a copy of the task's persisted shape.
func (t *Task) State() State {
	s := State{
		ID:          t.ID(),
		Title:       t.title,
		Description: t.description,
		DueDate:     t.dueDate,
		Priority:    t.priority,
		Status:      t.status,
		CreatedAt:   t.CreatedAt(),
	}
	if t.completedAt != nil {
		at := *t.completedAt
		s.CompletedAt = &at
	}
	return s
}

// Clone returns an independent copy of the task without pending events.
func (t *Task) Clone() *Task {
	c, _ := Rehydrate(t.State())
	return c
}

// Getters

func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) DueDate() value_objects.DueDate   { return t.dueDate }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) IsDone() bool                     { return t.status == StatusDone }

// CompletedAt returns when the task was first completed, or nil.
func (t *Task) CompletedAt() *time.Time {
	if t.completedAt == nil {
		return nil
	}
	at := *t.completedAt
	return &at
}

// Complete marks the task as done at now. Completing a done task is a no-op.
func (t *Task) Complete(now time.Time) {
	if t.IsDone() {
		return
	}

	now = now.UTC()
	t.status = StatusDone
	t.completedAt = &now

	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.title, now))
}

// IsOverdue reports whether the task is not done and its due date parses to an
// instant strictly before now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsDone() {
		return false
	}
	return t.dueDate.Before(now)
}
