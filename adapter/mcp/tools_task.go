package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

type taskCreateInput struct {
	Title         string   `json:"title" jsonschema:"required"`
	Description   string   `json:"description,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	Category      string   `json:"category,omitempty"`
	DueDate       string   `json:"due_date,omitempty"`
	EstimatedTime *int     `json:"estimated_time,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type taskListInput struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

type taskIDInput struct {
	TaskID int64 `json:"task_id" jsonschema:"required"`
}

type taskListOutput struct {
	Tasks []queries.TaskDTO `json:"tasks"`
	Count int               `json:"count"`
}

type taskTools struct {
	app *cli.App
}

func registerTaskTools(srv *mcp.Server, tools taskTools) {
	srv.Tool("tasks.list").
		Description("List tasks, newest first, filtered by exact status, priority or category").
		Handler(tools.list)

	srv.Tool("tasks.get").
		Description("Get one task by id").
		Handler(tools.get)

	srv.Tool("tasks.create").
		Description("Create a new task").
		Handler(tools.create)

	srv.Tool("tasks.complete").
		Description("Mark a task as completed and record it in today's statistics").
		Handler(tools.complete)

	srv.Tool("tasks.delete").
		Description("Delete a task").
		Handler(tools.delete)
}

func (t taskTools) list(ctx context.Context, input taskListInput) (*taskListOutput, error) {
	if t.app.ListTasksHandler == nil {
		return nil, errNotConfigured
	}
	tasks, err := t.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		Status:   input.Status,
		Priority: input.Priority,
		Category: input.Category,
	})
	if err != nil {
		return nil, err
	}
	return &taskListOutput{Tasks: tasks, Count: len(tasks)}, nil
}

func (t taskTools) get(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if t.app.GetTaskHandler == nil {
		return nil, errNotConfigured
	}
	id, err := parseTaskID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return t.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: id})
}

func (t taskTools) create(ctx context.Context, input taskCreateInput) (*queries.TaskDTO, error) {
	if t.app.CreateTaskHandler == nil {
		return nil, errNotConfigured
	}
	return t.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		Category:      input.Category,
		DueDate:       input.DueDate,
		EstimatedTime: input.EstimatedTime,
		Tags:          input.Tags,
	})
}

func (t taskTools) complete(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if t.app.UpdateTaskHandler == nil {
		return nil, errNotConfigured
	}
	id, err := parseTaskID(input.TaskID)
	if err != nil {
		return nil, err
	}
	status := task.StatusCompleted.String()
	return t.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{TaskID: id, Status: &status})
}

func (t taskTools) delete(ctx context.Context, input taskIDInput) (map[string]any, error) {
	if t.app.DeleteTaskHandler == nil {
		return nil, errNotConfigured
	}
	id, err := parseTaskID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := t.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: id}); err != nil {
		return nil, err
	}
	return map[string]any{"task_id": id, "deleted": true}, nil
}
