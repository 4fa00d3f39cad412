package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/tasker/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	logger  *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// BootstrapOptions tune how the App is built for a command.
type BootstrapOptions struct {
	// TerminalNotifications writes notifications to stdout.
	TerminalNotifications bool
}

// Bootstrap builds the App on first use. The returned function releases it.
type Bootstrap func(ctx context.Context, opts BootstrapOptions) (*App, func(), error)

// annotationOwnOutput marks commands that take over the terminal or deliver
// notifications themselves.
const annotationOwnOutput = "tasker/own-output"

var (
	bootstrap Bootstrap
	shutdown  func()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasker",
	Short: "tasker - a small task list with due-date alerts",
	Long: `tasker keeps a list of tasks with a title, a description, an optional
due date and a priority. Tasks can be listed by due date or priority,
filtered by status, searched, completed and deleted.

Tasks due within the alert window raise a notification.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		if cfgFile != "" {
			if err := os.Setenv("TASKER_CONFIG", cfgFile); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		ctx = context.WithValue(ctx, commandContextKey{}, info)
		cmd.SetContext(ctx)

		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())

		if needsApp(cmd) && app == nil && bootstrap != nil {
			a, release, err := bootstrap(ctx, optionsFor(cmd))
			if err != nil {
				return err
			}
			app = a
			shutdown = release
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// standalone lists commands that run without storage.
var standalone = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if standalone[c.Name()] {
			return false
		}
	}
	return true
}

func optionsFor(cmd *cobra.Command) BootstrapOptions {
	opts := BootstrapOptions{TerminalNotifications: true}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationOwnOutput] == "true" {
			opts.TerminalNotifications = false
		}
	}
	return opts
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) int {
	defer func() {
		if shutdown != nil {
			shutdown()
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (overrides TASKER_CONFIG)")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetBootstrap registers how the App is built when a command needs it.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Run executes the root command with args, writing to out. It is used by
// tests.
func Run(ctx context.Context, out io.Writer, args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	return rootCmd.ExecuteContext(ctx)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
