package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

// RegisterResources registers MCP resources that expose taskpilot data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App
	if app == nil {
		return fmt.Errorf("app is required")
	}

	srv.Resource("taskpilot://tasks").
		Name("Tasks").
		Description("All tasks, newest first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app.ListTasksHandler == nil {
				return nil, errNotConfigured
			}
			tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	srv.Resource("taskpilot://tasks/pending").
		Name("Pending Tasks").
		Description("Tasks that have not been started").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app.ListTasksHandler == nil {
				return nil, errNotConfigured
			}
			tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
				Status: task.StatusPending.String(),
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	srv.Resource("taskpilot://stats/overview").
		Name("Overview").
		Description("Task counts and completion rate").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app.GetOverviewHandler == nil {
				return nil, errNotConfigured
			}
			overview, err := app.GetOverviewHandler.Handle(ctx)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, overview)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
