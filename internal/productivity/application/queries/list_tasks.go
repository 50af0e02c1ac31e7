package queries

import (
	"context"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

// ListTasksQuery filters tasks by exact, case-sensitive matches. Empty
// fields do not filter.
type ListTasksQuery struct {
	Status   string
	Priority string
	Category string
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle returns matching tasks, newest first.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.List(ctx, task.Filter{
		Status:   query.Status,
		Priority: query.Priority,
		Category: query.Category,
	})
	if err != nil {
		return nil, err
	}
	return ToTaskDTOs(tasks), nil
}

// ListPendingHandler loads the pending set the AI engines work on.
type ListPendingHandler struct {
	taskRepo task.Repository
}

// NewListPendingHandler creates a new ListPendingHandler.
func NewListPendingHandler(taskRepo task.Repository) *ListPendingHandler {
	return &ListPendingHandler{taskRepo: taskRepo}
}

// Handle returns pending tasks in insertion order.
func (h *ListPendingHandler) Handle(ctx context.Context) ([]*task.Task, error) {
	return h.taskRepo.FindPending(ctx)
}
