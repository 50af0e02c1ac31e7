// Package mcp exposes taskpilot to MCP clients as tools, resources and prompts
// backed by the same handlers as the CLI.
package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	registerTaskTools(srv, taskTools{app: deps.App})
	registerAITools(srv, aiTools{app: deps.App})
	registerStatsTools(srv, statsTools{app: deps.App})
	return nil
}
