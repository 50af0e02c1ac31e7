package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/services"
)

type emptyInput struct{}

type scoredTaskOutput struct {
	Task        queries.TaskDTO `json:"task"`
	Score       int             `json:"score"`
	Explanation string          `json:"explanation"`
}

type aiTools struct {
	app *cli.App
}

func registerAITools(srv *mcp.Server, tools aiTools) {
	srv.Tool("ai.suggestions").
		Description("Advisory suggestions derived from the pending tasks and the time of day").
		Handler(tools.suggestions)

	srv.Tool("ai.smart_sort").
		Description("Pending tasks ordered by priority, due date and quick-win score").
		Handler(tools.smartSort)
}

func (t aiTools) suggestions(ctx context.Context, _ emptyInput) ([]services.Suggestion, error) {
	if t.app.ListPendingHandler == nil || t.app.SuggestionEngine == nil {
		return nil, errNotConfigured
	}
	pending, err := t.app.ListPendingHandler.Handle(ctx)
	if err != nil {
		return nil, err
	}
	return t.app.SuggestionEngine.Suggest(pending, t.app.Now()), nil
}

func (t aiTools) smartSort(ctx context.Context, _ emptyInput) ([]scoredTaskOutput, error) {
	if t.app.ListPendingHandler == nil || t.app.SmartSortEngine == nil {
		return nil, errNotConfigured
	}
	pending, err := t.app.ListPendingHandler.Handle(ctx)
	if err != nil {
		return nil, err
	}

	scored := t.app.SmartSortEngine.Sort(pending, t.app.Now())
	out := make([]scoredTaskOutput, 0, len(scored))
	for _, s := range scored {
		out = append(out, scoredTaskOutput{
			Task:        queries.ToTaskDTO(s.Task),
			Score:       s.Score,
			Explanation: s.Explanation,
		})
	}
	return out, nil
}
