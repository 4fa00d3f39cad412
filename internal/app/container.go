// Package app wires configuration, storage and handlers into a running
// application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/tasker/internal/tasks/application"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/duedate"
	"github.com/felixgeelhaar/tasker/internal/tasks/persistence"
	"github.com/felixgeelhaar/tasker/internal/tasks/store"
	"github.com/felixgeelhaar/tasker/pkg/config"
	"github.com/felixgeelhaar/tasker/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	KV         kv.Store
	Storage    *persistence.Adapter
	LoadReport persistence.Report

	// Core
	Store    *store.Store
	Session  *application.Session
	Bus      *eventbus.Bus
	Monitor  duedate.Monitor
	Notifier notify.Notifier
	Health   *observability.HealthRegistry

	// Command handlers
	AddTaskHandler      *commands.AddTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Query handlers
	ListTasksHandler *queries.ListTasksHandler
	ProgressHandler  *queries.ProgressHandler
	CheckDueHandler  *queries.CheckDueHandler
}

// Option customizes a container.
type Option func(*options)

type options struct {
	notifiers []notify.Notifier
	kv        kv.Store
}

// WithNotifier adds a notifier next to the log notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifiers = append(o.notifiers, n) }
}

// WithKV uses store instead of opening the configured driver. The container
// takes ownership of store.
func WithKV(store kv.Store) Option {
	return func(o *options) { o.kv = store }
}

// NewContainer opens storage, loads the collection and builds the handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if o.kv != nil {
		c.KV = o.kv
	} else {
		driver, err := kv.ParseDriver(cfg.StorageDriver)
		if err != nil {
			return nil, err
		}
		c.KV, err = kv.Open(ctx, kv.Config{
			Driver:     driver,
			DataDir:    cfg.DataDir,
			SQLitePath: cfg.SQLitePath,
			RedisURL:   cfg.RedisURL,
			Namespace:  kv.DefaultRedisNamespace,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	c.Storage = persistence.NewAdapter(c.KV, cfg.StorageKey, logger)
	tasks, report := c.Storage.Load(ctx)
	c.LoadReport = report
	c.Store = store.New(tasks...)

	// Events
	c.Bus = eventbus.New(logger)
	c.Notifier = append(notify.Multi{notify.NewLogNotifier(logger)}, o.notifiers...)
	c.Bus.Subscribe(notify.NewCompletionConsumer(c.Notifier, logger))

	c.Session = application.NewSession(c.Store, c.Storage, c.Bus, logger)
	c.Monitor = duedate.NewMonitor(cfg.DueSoonWindow)

	c.AddTaskHandler = commands.NewAddTaskHandler(c.Store, c.Session)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.Store, c.Session)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.Store, c.Session)

	c.ListTasksHandler = queries.NewListTasksHandler(c.Store, c.Monitor)
	c.ProgressHandler = queries.NewProgressHandler(c.Store)
	c.CheckDueHandler = queries.NewCheckDueHandler(c.Store, c.Monitor, c.NewDispatcher(c.Notifier))

	c.Health = observability.NewHealthRegistry()
	c.Health.Register("storage", observability.StorageHealthChecker(c.probeStorage))

	logger.Debug("container ready",
		"driver", cfg.StorageDriver,
		"tasks", c.Store.Len(),
		"warnings", len(report.Warnings),
	)
	return c, nil
}

// NewDispatcher returns a due-date dispatcher delivering to n.
func (c *Container) NewDispatcher(n notify.Notifier) *notify.Dispatcher {
	return notify.NewDispatcher(n, c.Logger)
}

// Reload replaces the collection with the stored document. It waits for any
// running command.
func (c *Container) Reload(ctx context.Context) (persistence.Report, error) {
	txCtx, err := c.Session.Begin(ctx)
	if err != nil {
		return persistence.Report{}, err
	}
	defer func() { _ = c.Session.Rollback(txCtx) }()

	tasks, report := c.Storage.Load(txCtx)
	c.Store.Replace(tasks)
	c.Logger.Debug("tasks reloaded", "tasks", len(tasks))
	return report, nil
}

// FilePath returns the file the collection is stored in when the file
// driver is active.
func (c *Container) FilePath() (string, bool) {
	fs, ok := c.KV.(*kv.FileStore)
	if !ok {
		return "", false
	}
	return fs.Path(c.Storage.Key()), true
}

func (c *Container) probeStorage(ctx context.Context) error {
	_, err := c.KV.Get(ctx, c.Storage.Key())
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	return err
}

// Close releases storage.
func (c *Container) Close() {
	if c.KV == nil {
		return
	}
	if err := c.KV.Close(); err != nil {
		c.Logger.Warn("error closing storage", "error", err)
	}
}
