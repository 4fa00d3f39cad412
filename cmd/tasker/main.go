package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tasker/adapter/cli"
	"github.com/felixgeelhaar/tasker/adapter/cli/task"
	"github.com/felixgeelhaar/tasker/internal/app"
	"github.com/felixgeelhaar/tasker/internal/tasks/application/notify"
	"github.com/felixgeelhaar/tasker/pkg/config"
	"github.com/felixgeelhaar/tasker/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetLogger(observability.LoggerFromEnv())
	cli.SetBootstrap(bootstrap)
	cli.AddCommand(task.Cmd)

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}

func bootstrap(ctx context.Context, opts cli.BootstrapOptions) (*cli.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	cli.SetLogger(logger)

	var appOpts []app.Option
	if opts.TerminalNotifications {
		appOpts = append(appOpts, app.WithNotifier(notify.NewWriterNotifier(os.Stdout, nil)))
	}

	container, err := app.NewContainer(ctx, cfg, logger, appOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	if cfg.File != "" {
		logger.DebugContext(ctx, "config loaded", "file", cfg.File)
	}
	return cli.NewApp(container), container.Close, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.EffectiveLogLevel())
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logCfg.AddSource = cfg.IsDevelopment()
	return observability.NewLogger(logCfg)
}
