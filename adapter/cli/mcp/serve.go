package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/taskpilot/internal/mcp"
	"github.com/felixgeelhaar/taskpilot/pkg/config"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

var mcpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the task tools, resources and prompts over MCP streamable HTTP.

Set MCP_AUTH_TOKEN to require a bearer token on every request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return errors.New("application not initialized - database connection required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if mcpAddr != "" {
			cfg.MCPAddr = mcpAddr
		}

		logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, ""))
		err = mcpinternal.Serve(cmd.Context(), cfg, app, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&mcpAddr, "addr", "", "listen address (overrides MCP_ADDR)")
}
