package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/tasker/internal/shared/application"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
	"github.com/google/uuid"
)

// DefaultPriority applies when a command leaves the priority empty.
const DefaultPriority = value_objects.PriorityMedium

// AddTaskCommand contains the data needed to add a task. It is filled from
// CLI flags or decoded from a form.
type AddTaskCommand struct {
	Title       string `schema:"title" validate:"notblank,max=200"`
	Description string `schema:"description" validate:"max=2000"`
	DueDate     string `schema:"due" validate:"omitempty,duedate"`
	Priority    string `schema:"priority" validate:"omitempty,priority"`
}

// AddTaskResult contains the result of adding a task.
type AddTaskResult struct {
	TaskID uuid.UUID
	Task   *task.Task
}

// AddTaskHandler handles the AddTaskCommand.
type AddTaskHandler struct {
	store *store.Store
	uow   sharedApplication.UnitOfWork
}

// NewAddTaskHandler creates a new AddTaskHandler.
func NewAddTaskHandler(s *store.Store, uow sharedApplication.UnitOfWork) *AddTaskHandler {
	return &AddTaskHandler{store: s, uow: uow}
}

// Handle validates the command and appends the new task.
func (h *AddTaskHandler) Handle(ctx context.Context, cmd AddTaskCommand) (*AddTaskResult, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	priority := DefaultPriority
	if cmd.Priority != "" {
		p, err := value_objects.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, &task.ValidationError{Field: "priority", Err: err}
		}
		priority = p
	}

	due, err := value_objects.ParseDueDate(cmd.DueDate)
	if err != nil {
		return nil, &task.ValidationError{Field: "due", Err: err}
	}

	var result *AddTaskResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(context.Context) error {
		t, err := task.New(cmd.Title, cmd.Description, due, priority)
		if err != nil {
			return err
		}
		h.store.Add(t)
		result = &AddTaskResult{TaskID: t.ID(), Task: t.Clone()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
