package cli

import (
	"time"

	"github.com/felixgeelhaar/tasker/adapter/tui"
	"github.com/spf13/cobra"
)

var tuiInterval time.Duration

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Aliases:     []string{"ui"},
	Short:       "Open the interactive task widget",
	Annotations: map[string]string{annotationOwnOutput: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		interval := tuiInterval
		if interval <= 0 {
			interval = app.Config.WatchInterval
		}
		return tui.Run(cmd.Context(), tui.NewService(app.Container), interval)
	},
}

func init() {
	tuiCmd.Flags().DurationVarP(&tuiInterval, "interval", "i", 0, "due-date check interval (defaults to watch_interval)")
	rootCmd.AddCommand(tuiCmd)
}
