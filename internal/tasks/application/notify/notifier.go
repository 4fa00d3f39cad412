// Package notify delivers user-facing alerts about tasks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind string

const (
	KindDueSoon   Kind = "due_soon"
	KindOverdue   Kind = "overdue"
	KindCompleted Kind = "completed"
)

// Notification is one alert about one task.
type Notification struct {
	Kind    Kind
	TaskID  uuid.UUID
	Title   string
	Message string
	At      time.Time
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	format func(Notification) string
}

// NewWriterNotifier creates a notifier writing to w. A nil format prints the
// message prefixed with a bell.
func NewWriterNotifier(w io.Writer, format func(Notification) string) *WriterNotifier {
	if format == nil {
		format = func(n Notification) string { return "🔔 " + n.Message }
	}
	return &WriterNotifier{w: w, format: format}
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(_ context.Context, note Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintln(n.w, n.format(note))
	return err
}

// LogNotifier records notifications in the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, note Notification) error {
	n.logger.InfoContext(ctx, "task notification",
		"kind", note.Kind,
		"task_id", note.TaskID,
		"title", note.Title,
		"message", note.Message,
	)
	return nil
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

// Notify calls every notifier and joins their errors.
func (m Multi) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type onceKey struct {
	id   uuid.UUID
	kind Kind
}

// Once forwards each (task, kind) pair a single time.
type Once struct {
	mu   sync.Mutex
	next Notifier
	seen map[onceKey]struct{}
}

// NewOnce wraps next.
func NewOnce(next Notifier) *Once {
	return &Once{next: next, seen: make(map[onceKey]struct{})}
}

// Notify implements Notifier. A failed delivery is retried on the next call.
func (o *Once) Notify(ctx context.Context, note Notification) error {
	key := onceKey{id: note.TaskID, kind: note.Kind}

	o.mu.Lock()
	if _, ok := o.seen[key]; ok {
		o.mu.Unlock()
		return nil
	}
	o.seen[key] = struct{}{}
	o.mu.Unlock()

	if err := o.next.Notify(ctx, note); err != nil {
		o.mu.Lock()
		delete(o.seen, key)
		o.mu.Unlock()
		return err
	}
	return nil
}

// Forget lets the task be notified again.
func (o *Once) Forget(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for k := range o.seen {
		if k.id == id {
			delete(o.seen, k)
		}
	}
}
