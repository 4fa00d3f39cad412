package cli

import (
	"fmt"

	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that task storage is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		health := app.Health.Check(cmd.Context())
		for name, check := range health.Checks {
			fmt.Fprintf(out, "%-10s %-10s %s\n", name, check.Status, check.Message)
		}
		fmt.Fprintf(out, "status: %s\n", health.Status)

		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("storage unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
