package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
)

// Dispatcher sends due-date alerts to a notifier.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// DispatchDueSoon sends one notification per due-soon alert and returns how
// many were delivered. Failures are logged.
func (d *Dispatcher) DispatchDueSoon(ctx context.Context, alerts []duedate.Alert, now time.Time) int {
	sent := 0
	for _, a := range duedate.DueSoon(alerts) {
		if err := d.notifier.Notify(ctx, FromAlert(a, now)); err != nil {
			d.logger.WarnContext(ctx, "due-soon notification failed",
				"task_id", a.Task.ID(),
				"error", err,
			)
			continue
		}
		sent++
	}
	return sent
}

// completedPayload mirrors the encoded task.TaskCompleted event.
type completedPayload struct {
	Title string `json:"title"`
}

// CompletionConsumer turns task.completed events into notifications.
type CompletionConsumer struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewCompletionConsumer creates a CompletionConsumer.
func NewCompletionConsumer(notifier Notifier, logger *slog.Logger) *CompletionConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionConsumer{notifier: notifier, logger: logger}
}

// EventTypes implements eventbus.EventConsumer.
func (c *CompletionConsumer) EventTypes() []string {
	return []string{task.RoutingKeyCompleted}
}

// Handle implements eventbus.EventConsumer.
func (c *CompletionConsumer) Handle(ctx context.Context, event *eventbus.Event) error {
	var payload completedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "notifying completion", "task_id", event.AggregateID)
	return c.notifier.Notify(ctx, Completed(event.AggregateID, payload.Title, event.OccurredAt))
}
