package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/tasker/internal/shared/application"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// DeleteTaskCommand removes the target.
type DeleteTaskCommand struct {
	Target Target
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	store *store.Store
	uow   sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(s *store.Store, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{store: s, uow: uow}
}

// Handle removes the task and returns what was removed.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*Result, error) {
	var result *Result

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(context.Context) error {
		var (
			t   *task.Task
			err error
		)
		if cmd.Target.byID() {
			t, err = h.store.Remove(cmd.Target.TaskID)
		} else {
			t, err = h.store.RemoveAt(cmd.Target.Position)
		}
		if err != nil {
			return err
		}
		result = resultOf(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
