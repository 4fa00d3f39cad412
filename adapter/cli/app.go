package cli

import (
	"context"
	"fmt"
	"strconv"

	internalApp "github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/commands"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	*internalApp.Container
}

// NewApp creates a CLI application over a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{Container: c}
}

// ResolveTarget turns a user reference into a command target. A number is a
// 1-based position in the list produced by query; anything else is a task id
// or a unique id prefix.
func (a *App) ResolveTarget(ctx context.Context, ref string, query queries.ListTasksQuery) (commands.Target, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 {
			return commands.Target{}, fmt.Errorf("task position must be 1 or more, got %d", n)
		}
		if _, err := a.ListTasksHandler.Handle(ctx, query); err != nil {
			return commands.Target{}, err
		}
		return commands.AtPosition(n - 1), nil
	}

	id, err := a.Store.Resolve(ref)
	if err != nil {
		return commands.Target{}, fmt.Errorf("%q: %w", ref, err)
	}
	return commands.ByID(id), nil
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the App or an error when storage is not wired.
func RequireApp() (*App, error) {
	if app == nil || app.Container == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}
