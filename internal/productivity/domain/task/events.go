package task

import (
	"strconv"

	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "taskpilot.task.created"
	RoutingKeyUpdated   = "taskpilot.task.updated"
	RoutingKeyCompleted = "taskpilot.task.completed"
	RoutingKeyDeleted   = "taskpilot.task.deleted"
)

func aggregateID(taskID int64) string {
	return strconv.FormatInt(taskID, 10)
}

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	TaskID   int64  `json:"task_id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Category string `json:"category,omitempty"`
}

// NewTaskCreated creates a TaskCreated event. The task must already have an ID.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(aggregateID(t.id), AggregateType, RoutingKeyCreated),
		TaskID:    t.id,
		Title:     t.title,
		Priority:  t.priority.String(),
		Category:  t.category,
	}
}

// TaskUpdated is emitted when a task is updated.
type TaskUpdated struct {
	domain.BaseEvent
	TaskID int64    `json:"task_id"`
	Fields []string `json:"fields"` // Names of fields that were updated
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(taskID int64, fields []string) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: domain.NewBaseEvent(aggregateID(taskID), AggregateType, RoutingKeyUpdated),
		TaskID:    taskID,
		Fields:    fields,
	}
}

// TaskCompleted is emitted when a task transitions into completed.
type TaskCompleted struct {
	domain.BaseEvent
	TaskID    int64 `json:"task_id"`
	TimeSpent int   `json:"time_spent_minutes"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID int64, timeSpent int) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent: domain.NewBaseEvent(aggregateID(taskID), AggregateType, RoutingKeyCompleted),
		TaskID:    taskID,
		TimeSpent: timeSpent,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
	TaskID int64 `json:"task_id"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID int64) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(aggregateID(taskID), AggregateType, RoutingKeyDeleted),
		TaskID:    taskID,
	}
}
