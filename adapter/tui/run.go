package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the widget and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, svc Service, interval time.Duration) error {
	p := tea.NewProgram(New(ctx, svc, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
