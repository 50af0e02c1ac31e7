package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
)

type productivityInput struct {
	Days *int `json:"days,omitempty"`
}

type statsTools struct {
	app *cli.App
}

func registerStatsTools(srv *mcp.Server, tools statsTools) {
	srv.Tool("stats.overview").
		Description("Task counts by status, urgent and high pending counts and the completion rate").
		Handler(tools.overview)

	srv.Tool("stats.productivity").
		Description("Daily created/completed counts, time spent and focus score for the last N days (default 7)").
		Handler(tools.productivity)
}

func (t statsTools) overview(ctx context.Context, _ emptyInput) (*queries.OverviewDTO, error) {
	if t.app.GetOverviewHandler == nil {
		return nil, errNotConfigured
	}
	return t.app.GetOverviewHandler.Handle(ctx)
}

func (t statsTools) productivity(ctx context.Context, input productivityInput) ([]insightsQueries.DailyStatsDTO, error) {
	if t.app.GetProductivityHandler == nil {
		return nil, errNotConfigured
	}
	days := insightsQueries.DefaultProductivityDays
	if input.Days != nil {
		days = *input.Days
	}
	return t.app.GetProductivityHandler.Handle(ctx, insightsQueries.GetProductivityQuery{Days: days})
}
