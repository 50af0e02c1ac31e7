package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common taskpilot workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_planning").
		Description("Plan the day from the pending tasks, the smart-sort order and the suggestions.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Planning Session", `Help me plan my day. Please:

1. Read my pending tasks from the taskpilot://tasks/pending resource
2. Call ai.smart_sort to see them ranked by urgency
3. Call ai.suggestions for today's advice

Based on this:
- Pick the three tasks I should do first and explain why
- Point out overdue tasks and quick wins (15 minutes or less)
- Flag anything that should be re-prioritised

Use tasks.complete when I tell you a task is done.`), nil
		})

	srv.Prompt("weekly_review").
		Description("Review the week's productivity statistics and plan the next week.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Review Session", `Run a weekly review with me:

1. Call stats.overview for the current counts and completion rate
2. Call stats.productivity with days=7 for the daily history
3. List my pending tasks with tasks.list

Then summarise:
- Which days had the best focus score and what differed
- Whether I created more tasks than I completed
- Which categories are piling up

Finish with three concrete goals for next week.`), nil
		})

	srv.Prompt("task_breakdown").
		Description("Break down a complex task into smaller subtasks with time estimates.").
		Argument("task_description", "Description of the task to break down", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			taskDesc := args["task_description"]
			if taskDesc == "" {
				taskDesc = "[Please describe the task you want to break down]"
			}
			return userPrompt("Task Breakdown Assistant", fmt.Sprintf(`Help me break down this task into smaller, actionable subtasks:

**Task:** %s

Please:
1. Break it into 3-7 subtasks that can each be completed in one sitting
2. For each subtask, suggest a clear title, an estimated_time in minutes and a priority (low, medium, high, urgent)
3. Suggest an order to complete them

Once I approve the breakdown, use the tasks.create tool to create each subtask.`, taskDesc)), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
