package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
	"github.com/google/uuid"
)

// AlertDTO is a due-date alert as shown to the user.
type AlertDTO struct {
	TaskID    uuid.UUID     `json:"task_id"`
	Title     string        `json:"title"`
	Kind      duedate.Kind  `json:"kind"`
	Remaining time.Duration `json:"remaining"`
	Message   string        `json:"message"`
}

// CheckDueResult holds the alerts of one evaluation.
type CheckDueResult struct {
	Alerts   []AlertDTO
	Notified int
}

// DueSoon returns only the due-soon alerts.
func (r *CheckDueResult) DueSoon() []AlertDTO {
	var out []AlertDTO
	for _, a := range r.Alerts {
		if a.Kind == duedate.KindDueSoon {
			out = append(out, a)
		}
	}
	return out
}

// CheckDueHandler evaluates due dates and notifies due-soon tasks.
type CheckDueHandler struct {
	store      *store.Store
	monitor    duedate.Monitor
	dispatcher *notify.Dispatcher
	now        func() time.Time
}

// NewCheckDueHandler creates a new CheckDueHandler. A nil dispatcher only
// evaluates.
func NewCheckDueHandler(s *store.Store, monitor duedate.Monitor, dispatcher *notify.Dispatcher) *CheckDueHandler {
	return &CheckDueHandler{store: s, monitor: monitor, dispatcher: dispatcher, now: time.Now}
}

// Handle runs the monitor over the collection in insertion order.
func (h *CheckDueHandler) Handle(ctx context.Context) *CheckDueResult {
	now := h.now()
	alerts := h.monitor.Evaluate(h.store.Snapshot(), now)

	result := &CheckDueResult{Alerts: make([]AlertDTO, 0, len(alerts))}
	for _, a := range alerts {
		n := notify.FromAlert(a, now)
		result.Alerts = append(result.Alerts, AlertDTO{
			TaskID:    a.Task.ID(),
			Title:     a.Task.Title(),
			Kind:      a.Kind,
			Remaining: a.Remaining,
			Message:   n.Message,
		})
	}
	if h.dispatcher != nil {
		result.Notified = h.dispatcher.DispatchDueSoon(ctx, alerts, now)
	}
	return result
}
