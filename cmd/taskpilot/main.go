package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskpilot/adapter/api"
	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	"github.com/felixgeelhaar/taskpilot/adapter/cli/mcp"
	"github.com/felixgeelhaar/taskpilot/adapter/cli/task"
	"github.com/felixgeelhaar/taskpilot/internal/app"
	"github.com/felixgeelhaar/taskpilot/pkg/config"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// version and help still work without a database.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		serverCfg := api.DefaultServerConfig()
		if cfg.HTTPAddr != "" {
			serverCfg.Addr = cfg.HTTPAddr
		}

		cliApp = cli.NewApp(container.APIHandlers())
		cliApp.SetServer(api.NewServer(serverCfg, container.APIHandlers(), container.APIOptions()), cfg.ShutdownTimeout)
		cliApp.SetOutboxProcessor(container.OutboxProcessor, cfg.OutboxEnabled)
		cliApp.SetDatabase(container.DBConn)
		cliApp.SetHealth(container.Health)
		cliApp.SetClock(container.Clock)
	}

	cli.SetApp(cliApp)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
