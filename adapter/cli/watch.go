package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Notify due-soon tasks until interrupted",
	Long: `Evaluate due dates on an interval and notify each task once per run.
With the file storage driver the list is reloaded whenever the file
changes, so tasks added from another terminal are picked up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		interval := watchInterval
		if interval <= 0 {
			interval = app.Config.WatchInterval
		}
		checker := queries.NewCheckDueHandler(app.Store, app.Monitor, app.NewDispatcher(notify.NewOnce(app.Notifier)))
		path, _ := app.FilePath()

		w := &Watcher{
			Interval: interval,
			Path:     path,
			Check: func(ctx context.Context) {
				result := checker.Handle(ctx)
				app.Logger.DebugContext(ctx, "due dates checked",
					"alerts", len(result.Alerts),
					"notified", result.Notified,
				)
			},
			Reload: func(ctx context.Context) error {
				_, err := app.Reload(ctx)
				return err
			},
			Logger: app.Logger,
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching due dates every %s (Ctrl+C to stop)\n", interval)
		return w.Run(cmd.Context())
	},
}

// Watcher runs due-date checks on a ticker and after the watched file
// changes.
type Watcher struct {
	Interval time.Duration
	// Path is the file to watch; empty disables reloading.
	Path   string
	Check  func(ctx context.Context)
	Reload func(ctx context.Context) error
	Logger *slog.Logger
}

// Run blocks until ctx is done. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}

	var fw *fsnotify.Watcher
	if w.Path != "" {
		var err error
		if fw, err = fsnotify.NewWatcher(); err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.Path, err)
		}
		// Saves replace the file, so watch its directory.
		if err := fw.Add(filepath.Dir(w.Path)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("failed to watch %s: %w", w.Path, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.tick(ctx) })
	if fw != nil {
		g.Go(func() error { return w.watchFile(ctx, fw) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Watcher) tick(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

func (w *Watcher) watchFile(ctx context.Context, fw *fsnotify.Watcher) error {
	defer fw.Close()

	target := filepath.Clean(w.Path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			if err := w.Reload(ctx); err != nil {
				w.Logger.WarnContext(ctx, "reload failed", "path", w.Path, "error", err)
				continue
			}
			w.Logger.DebugContext(ctx, "task file changed", "path", w.Path)
			w.Check(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.WarnContext(ctx, "file watcher error", "error", err)
		}
	}
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "check interval (default: watch_interval from config)")
	rootCmd.AddCommand(watchCmd)
}
