package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
)

// DefaultKey is the storage key of the task document.
const DefaultKey = "tasks"

// StorageError wraps a failed storage operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Adapter saves and loads the task collection under a single key. Storage
// failures are logged and never returned; the in-memory collection stays
// authoritative.
type Adapter struct {
	store  kv.Store
	key    string
	logger *slog.Logger
}

// NewAdapter creates an adapter. An empty key means DefaultKey.
func NewAdapter(store kv.Store, key string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key, logger: logger}
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Save overwrites the stored document with tasks.
func (a *Adapter) Save(ctx context.Context, tasks []*task.Task) {
	data, err := Encode(tasks)
	if err != nil {
		a.logFailure(&StorageError{Op: "encode", Key: a.key, Err: err})
		return
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		a.logFailure(&StorageError{Op: "save", Key: a.key, Err: err})
		return
	}
	a.logger.Debug("tasks saved", "key", a.key, "count", len(tasks), "bytes", len(data))
}

// Load reads the stored document. A missing document yields an empty
// collection without warnings.
func (a *Adapter) Load(ctx context.Context) ([]*task.Task, Report) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []*task.Task{}, Report{}
	}
	if err != nil {
		serr := &StorageError{Op: "load", Key: a.key, Err: err}
		a.logFailure(serr)
		var report Report
		report.document("%v; starting with an empty list", serr)
		return []*task.Task{}, report
	}

	tasks, report := Decode(data)
	for _, w := range report.Warnings {
		a.logger.Warn("recovered stored task data", "key", a.key, "warning", w.String())
	}
	a.logger.Debug("tasks loaded", "key", a.key, "count", len(tasks))
	return tasks, report
}

func (a *Adapter) logFailure(err *StorageError) {
	a.logger.Warn("task storage failed",
		"op", err.Op,
		"key", err.Key,
		"error", err.Err,
	)
}
