// Package application wires task commands to storage and event delivery.
package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
)

// Saver persists a snapshot of the collection.
type Saver interface {
	Save(ctx context.Context, tasks []*task.Task)
}

// Session is the unit of work of task commands. Begin serializes commands;
// Commit saves the collection and then publishes the events the command
// recorded; Rollback drops those events.
type Session struct {
	mu        sync.Mutex
	store     *store.Store
	saver     Saver
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewSession creates a session. A nil saver skips persistence and a nil
// publisher drops events.
func NewSession(s *store.Store, saver Saver, publisher eventbus.Publisher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:     s,
		saver:     saver,
		publisher: publisher,
		logger:    logger,
	}
}

// Begin waits for any running command to finish.
func (s *Session) Begin(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	return ctx, nil
}

// Commit saves the snapshot and publishes pending events.
func (s *Session) Commit(ctx context.Context) error {
	defer s.mu.Unlock()

	if s.saver != nil {
		s.saver.Save(ctx, s.store.Snapshot())
	}

	events := s.store.PullEvents()
	if s.publisher == nil || len(events) == 0 {
		return nil
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish task events", "count", len(events), "error", err)
		return err
	}
	return nil
}

// Rollback discards pending events.
func (s *Session) Rollback(ctx context.Context) error {
	defer s.mu.Unlock()

	if dropped := s.store.PullEvents(); len(dropped) > 0 {
		s.logger.DebugContext(ctx, "dropped task events", "count", len(dropped))
	}
	return nil
}
