package task

import (
	"time"

	"github.com/felixgeelhaar/tasker/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "task.created"
	RoutingKeyCompleted = "task.completed"
	RoutingKeyDeleted   = "task.deleted"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID uuid.UUID, title, priority string, at time.Time) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated, at),
		Title:     title,
		Priority:  priority,
	}
}

// TaskCompleted is emitted the first time a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
	Title string `json:"title"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID, title string, at time.Time) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted, at),
		Title:     title,
	}
}

// TaskDeleted is emitted when a task is removed from the collection.
type TaskDeleted struct {
	domain.BaseEvent
	Title string `json:"title"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID uuid.UUID, title string, at time.Time) TaskDeleted {
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted, at),
		Title:     title,
	}
}
