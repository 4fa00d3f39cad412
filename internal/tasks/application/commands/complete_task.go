package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/tasker/internal/shared/application"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// CompleteTaskCommand marks the target done.
type CompleteTaskCommand struct {
	Target Target
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	store *store.Store
	uow   sharedApplication.UnitOfWork
	now   clock
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(s *store.Store, uow sharedApplication.UnitOfWork) *CompleteTaskHandler {
	return &CompleteTaskHandler{store: s, uow: uow, now: time.Now}
}

// Handle completes the task. Completing a done task changes nothing and
// publishes nothing.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*Result, error) {
	var result *Result

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(context.Context) error {
		var (
			t   *task.Task
			err error
		)
		now := h.now().UTC()
		if cmd.Target.byID() {
			t, err = h.store.Complete(cmd.Target.TaskID, now)
		} else {
			t, err = h.store.CompleteAt(cmd.Target.Position, now)
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
