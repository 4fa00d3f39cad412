// Package tui is the interactive terminal widget.
package tui

import (
	"context"
	"sync"

	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
	"github.com/google/uuid"
)

// Service is what the widget needs from the application.
type Service interface {
	List(ctx context.Context, q queries.ListTasksQuery) ([]queries.TaskDTO, error)
	Add(ctx context.Context, cmd commands.AddTaskCommand) error
	Complete(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Progress(ctx context.Context) store.Progress
	CheckDue(ctx context.Context) []notify.Notification
	// Notifications drains the notifications raised since the last call.
	Notifications() []notify.Notification
}

// ContainerService serves the widget from a wired container.
type ContainerService struct {
	c       *internalApp.Container
	checker *queries.CheckDueHandler

	mu      sync.Mutex
	pending []notify.Notification
}

// NewService subscribes to completion events of c and returns the service.
// Due-soon notifications are raised once per task for the life of the
// service.
func NewService(c *internalApp.Container) *ContainerService {
	s := &ContainerService{c: c}
	collect := notify.NotifierFunc(s.collect)
	c.Bus.Subscribe(notify.NewCompletionConsumer(collect, c.Logger))
	s.checker = queries.NewCheckDueHandler(c.Store, c.Monitor, c.NewDispatcher(notify.NewOnce(collect)))
	return s
}

func (s *ContainerService) collect(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, n)
	return nil
}

// List implements Service.
func (s *ContainerService) List(ctx context.Context, q queries.ListTasksQuery) ([]queries.TaskDTO, error) {
	return s.c.ListTasksHandler.Handle(ctx, q)
}

// Add implements Service.
func (s *ContainerService) Add(ctx context.Context, cmd commands.AddTaskCommand) error {
	_, err := s.c.AddTaskHandler.Handle(ctx, cmd)
	return err
}

// Complete implements Service.
func (s *ContainerService) Complete(ctx context.Context, id uuid.UUID) error {
	_, err := s.c.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{Target: commands.ByID(id)})
	return err
}

// Delete implements Service.
func (s *ContainerService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.c.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{Target: commands.ByID(id)})
	return err
}

// Progress implements Service.
func (s *ContainerService) Progress(ctx context.Context) store.Progress {
	return s.c.ProgressHandler.Handle(ctx)
}

// CheckDue implements Service.
func (s *ContainerService) CheckDue(ctx context.Context) []notify.Notification {
	s.checker.Handle(ctx)
	return s.Notifications()
}

// Notifications implements Service.
func (s *ContainerService) Notifications() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}
